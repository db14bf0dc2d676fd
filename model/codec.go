package model

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

// Decode converts a schema-less document into a typed record. Values of the
// wrong type for a known field are reported as a ValidationError.
func Decode(doc map[string]interface{}, out interface{}) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return fmt.Errorf("model: encode document: %w", err)
	}
	if err := bson.Unmarshal(raw, out); err != nil {
		return &ValidationError{Reason: err.Error()}
	}
	return nil
}

// Encode converts a typed record back into a document, flattening Extra.
func Encode(v interface{}) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("model: encode record: %w", err)
	}
	doc := bson.M{}
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("model: decode record: %w", err)
	}
	return doc, nil
}
