package mongostore

import (
	"regexp"

	"bdcserver/query"
	"bdcserver/store"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// wrapError maps driver errors onto store sentinels.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return store.ErrDuplicate
	}
	return err
}

// toBSON translates a filter. Several conditions are joined with $and so the
// same field may appear more than once.
func toBSON(f query.Filter) bson.D {
	switch len(f) {
	case 0:
		return bson.D{}
	case 1:
		return bson.D{condition(f[0])}
	}
	and := make(bson.A, 0, len(f))
	for _, c := range f {
		and = append(and, bson.D{condition(c)})
	}
	return bson.D{{Key: "$and", Value: and}}
}

func condition(c query.Condition) bson.E {
	if c.Op == query.OpContains {
		s, _ := c.Value.(string)
		return bson.E{Key: c.Field, Value: bson.D{{
			Key:   "$regex",
			Value: primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"},
		}}}
	}
	return bson.E{Key: c.Field, Value: c.Value}
}

func sortDoc(fields []query.SortField) bson.D {
	d := make(bson.D, 0, len(fields))
	for _, f := range fields {
		dir := 1
		if f.Desc {
			dir = -1
		}
		d = append(d, bson.E{Key: f.Field, Value: dir})
	}
	return d
}
