package query

import (
	"bytes"
	"reflect"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Match reports whether doc satisfies the condition.
func (c Condition) Match(doc map[string]interface{}) bool {
	v, ok := doc[c.Field]
	switch c.Op {
	case OpContains:
		want, _ := c.Value.(string)
		if want == "" {
			return true
		}
		s, isString := v.(string)
		if !ok || !isString {
			return false
		}
		return strings.Contains(strings.ToLower(s), strings.ToLower(want))
	default:
		return ok && equal(v, c.Value)
	}
}

// Match reports whether doc satisfies every condition of f.
func (f Filter) Match(doc map[string]interface{}) bool {
	for _, c := range f {
		if !c.Match(doc) {
			return false
		}
	}
	return true
}

// Apply evaluates q against docs: filter, stable sort by q.Ordered(), then the
// page window. The input slice is not modified.
func Apply[D ~map[string]interface{}](docs []D, q Query) []D {
	out := make([]D, 0, len(docs))
	for _, d := range docs {
		if q.Filter.Match(d) {
			out = append(out, d)
		}
	}

	keys := q.Ordered()
	sort.SliceStable(out, func(i, j int) bool {
		for _, k := range keys {
			c := Compare(out[i][k.Field], out[j][k.Field])
			if c == 0 {
				continue
			}
			if k.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})

	if q.Page == nil {
		return out
	}
	skip, limit := q.Page.Skip(), q.Page.Limit()
	if skip >= int64(len(out)) {
		return out[:0]
	}
	end := int64(len(out))
	if limit > 0 && skip+limit < end {
		end = skip + limit
	}
	return out[skip:end]
}

// Compare orders two stored values: missing < numbers < strings < object ids
// < booleans < dates. Values of other types compare equal within their rank.
func Compare(a, b interface{}) int {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}
	switch ra {
	case rankNumber:
		x, _ := toFloat(a)
		y, _ := toFloat(b)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	case rankString:
		return strings.Compare(a.(string), b.(string))
	case rankObjectID:
		x, y := a.(primitive.ObjectID), b.(primitive.ObjectID)
		return bytes.Compare(x[:], y[:])
	case rankBool:
		x, y := a.(bool), b.(bool)
		switch {
		case x == y:
			return 0
		case !x:
			return -1
		}
		return 1
	case rankDate:
		x, y := toTime(a), toTime(b)
		return x.Compare(y)
	}
	return 0
}

const (
	rankMissing = iota
	rankNumber
	rankString
	rankOther
	rankObjectID
	rankBool
	rankDate
)

func rank(v interface{}) int {
	switch v.(type) {
	case nil:
		return rankMissing
	case int, int32, int64, float32, float64:
		return rankNumber
	case string:
		return rankString
	case primitive.ObjectID:
		return rankObjectID
	case bool:
		return rankBool
	case time.Time, primitive.DateTime:
		return rankDate
	}
	return rankOther
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func toTime(v interface{}) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case primitive.DateTime:
		return t.Time()
	}
	return time.Time{}
}

func equal(a, b interface{}) bool {
	if x, ok := toFloat(a); ok {
		y, ok := toFloat(b)
		return ok && x == y
	}
	return reflect.DeepEqual(a, b)
}
