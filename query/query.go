// Package query holds the filter, sort and pagination shape shared by every
// list endpoint. Store adapters translate a Query into their native form;
// adapters without native substring search evaluate it in memory with Apply.
package query

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

// IDField is the document identifier used as the default sort key.
const IDField = "_id"

// Op is a field-level comparison.
type Op int

const (
	// OpEq matches when the stored value equals the condition value.
	OpEq Op = iota
	// OpContains matches a case-insensitive, unanchored literal substring.
	OpContains
)

// Condition is one field-level test a document must pass.
type Condition struct {
	Field string
	Op    Op
	Value interface{}
}

// Eq returns an equality condition.
func Eq(field string, value interface{}) Condition {
	return Condition{Field: field, Op: OpEq, Value: value}
}

// Contains returns a case-insensitive substring condition.
func Contains(field, substr string) Condition {
	return Condition{Field: field, Op: OpContains, Value: substr}
}

// Filter is a conjunction of conditions. The empty filter matches everything.
type Filter []Condition

// And builds a Filter. Substring conditions with an empty value are dropped so
// that an absent search field acts as a wildcard.
func And(conds ...Condition) Filter {
	f := Filter{}
	for _, c := range conds {
		if c.Op == OpContains {
			if s, _ := c.Value.(string); s == "" {
				continue
			}
		}
		f = append(f, c)
	}
	return f
}

// SortField orders results by one field.
type SortField struct {
	Field string
	Desc  bool
}

// Page is a skip/limit window: Size documents starting at Size*Index.
type Page struct {
	Size  int64
	Index int64
}

// Skip is the number of documents to pass over.
func (p Page) Skip() int64 { return p.Size * p.Index }

// Limit is the maximum number of documents returned.
func (p Page) Limit() int64 { return p.Size }

// ErrInvalidPage is returned when page parameters cannot be used for skip/limit.
var ErrInvalidPage = errors.New("query: invalid page parameters")

// ParsePage coerces raw request parameters (strings or JSON numbers) into a
// Page. Size must be positive and index non-negative.
func ParsePage(size, index interface{}) (Page, error) {
	s, err := toInt(size)
	if err != nil {
		return Page{}, err
	}
	i, err := toInt(index)
	if err != nil {
		return Page{}, err
	}
	if s <= 0 || i < 0 {
		return Page{}, ErrInvalidPage
	}
	if i > 0 && s > math.MaxInt64/i {
		return Page{}, ErrInvalidPage
	}
	return Page{Size: s, Index: i}, nil
}

func toInt(v interface{}) (int64, error) {
	switch n := v.(type) {
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return 0, ErrInvalidPage
		}
		return i, nil
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) || n > math.MaxInt64 || n < math.MinInt64 {
			return 0, ErrInvalidPage
		}
		return int64(n), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, ErrInvalidPage
		}
		return i, nil
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	default:
		return 0, ErrInvalidPage
	}
}

// Query is a complete list request.
type Query struct {
	Filter Filter
	Sort   []SortField
	Page   *Page
}

// Ordered returns the sort keys with an ascending _id tiebreaker appended, so
// that every listing has a total, stable order across pages.
func (q Query) Ordered() []SortField {
	out := make([]SortField, 0, len(q.Sort)+1)
	for _, s := range q.Sort {
		out = append(out, s)
		if s.Field == IDField {
			return out
		}
	}
	return append(out, SortField{Field: IDField})
}
