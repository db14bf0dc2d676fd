package query

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestParsePage(t *testing.T) {
	tests := []struct {
		name    string
		size    interface{}
		index   interface{}
		want    Page
		wantErr bool
	}{
		{"query strings", "10", "2", Page{Size: 10, Index: 2}, false},
		{"json numbers", float64(5), float64(0), Page{Size: 5, Index: 0}, false},
		{"json.Number", json.Number("3"), json.Number("1"), Page{Size: 3, Index: 1}, false},
		{"padded string", " 4 ", "1", Page{Size: 4, Index: 1}, false},
		{"non numeric size", "abc", "0", Page{}, true},
		{"missing index", "10", nil, Page{}, true},
		{"empty string", "", "0", Page{}, true},
		{"fractional", float64(2.5), float64(0), Page{}, true},
		{"zero size", "0", "1", Page{}, true},
		{"negative index", "10", "-1", Page{}, true},
		{"overflow", "9223372036854775807", "2", Page{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePage(tt.size, tt.index)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPage)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPage_SkipLimit(t *testing.T) {
	p := Page{Size: 7, Index: 3}
	assert.Equal(t, int64(21), p.Skip())
	assert.Equal(t, int64(7), p.Limit())
}

func TestAnd_DropsEmptySubstrings(t *testing.T) {
	f := And(
		Contains("email", ""),
		Contains("district", "dhaka"),
		Contains("blood", ""),
		Eq("blogStatus", "published"),
	)
	require.Len(t, f, 2)
	assert.Equal(t, "district", f[0].Field)
	assert.Equal(t, "blogStatus", f[1].Field)
}

func TestCondition_Match(t *testing.T) {
	doc := map[string]interface{}{
		"email":    "Rahim@Example.com",
		"blood":    "A+",
		"postTime": int64(1700000000000),
		"count":    int32(3),
	}

	tests := []struct {
		name string
		cond Condition
		want bool
	}{
		{"substring case insensitive", Contains("email", "example"), true},
		{"substring unanchored", Contains("email", "him@ex"), true},
		{"substring literal plus", Contains("blood", "a+"), true},
		{"substring regex chars are literal", Contains("email", "r.*"), false},
		{"substring miss", Contains("email", "karim"), false},
		{"substring on missing field", Contains("district", "dhaka"), false},
		{"substring on non string", Contains("postTime", "17"), false},
		{"empty substring", Contains("district", ""), true},
		{"eq string", Eq("blood", "A+"), true},
		{"eq string is exact", Eq("blood", "a+"), false},
		{"eq numeric across widths", Eq("count", float64(3)), true},
		{"eq missing", Eq("district", "Dhaka"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cond.Match(doc))
		})
	}
}

func TestQuery_Ordered(t *testing.T) {
	assert.Equal(t, []SortField{{Field: IDField}}, Query{}.Ordered())
	assert.Equal(t,
		[]SortField{{Field: "postTime", Desc: true}, {Field: IDField}},
		Query{Sort: []SortField{{Field: "postTime", Desc: true}}}.Ordered())
	assert.Equal(t,
		[]SortField{{Field: IDField, Desc: true}},
		Query{Sort: []SortField{{Field: IDField, Desc: true}}}.Ordered())
}

func TestApply_SortAndPage(t *testing.T) {
	ids := make([]primitive.ObjectID, 5)
	docs := make([]map[string]interface{}, 5)
	for i := range docs {
		ids[i] = primitive.NewObjectID()
		docs[i] = map[string]interface{}{"_id": ids[i], "postTime": int64(100 + i%3)}
	}

	got := Apply(docs, Query{Sort: []SortField{{Field: "postTime", Desc: true}}})
	require.Len(t, got, 5)
	// postTime 102 (i=2), then 101 (i=1,4), then 100 (i=0,3); ties by _id.
	want := []primitive.ObjectID{ids[2], ids[1], ids[4], ids[0], ids[3]}
	for i, d := range got {
		assert.Equal(t, want[i], d["_id"], "position %d", i)
	}

	page := Apply(docs, Query{Page: &Page{Size: 2, Index: 1}})
	require.Len(t, page, 2)
	assert.Equal(t, ids[2], page[0]["_id"])
	assert.Equal(t, ids[3], page[1]["_id"])

	assert.Empty(t, Apply(docs, Query{Page: &Page{Size: 2, Index: 3}}))
	assert.Len(t, docs, 5, "input must not be modified")
}

func TestCompare_Ranks(t *testing.T) {
	assert.Equal(t, -1, Compare(nil, int64(1)))
	assert.Equal(t, -1, Compare(int32(9), "1"))
	assert.Equal(t, 0, Compare(int64(2), float64(2)))
	assert.Equal(t, 1, Compare("b", "a"))
	assert.Equal(t, -1, Compare(false, true))
}
