package model

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError reports a rejected field in a create or update payload.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Schema holds the per-collection write constraints. Fields not named here
// are free-form and pass through untouched.
type Schema struct {
	Enums     map[string][]string
	Immutable []string
	// Record returns an empty typed record. Update payloads are decoded into
	// it so known fields keep their stored types.
	Record func() interface{}
}

// CheckEnums validates every enum field present in fields.
func (s Schema) CheckEnums(fields map[string]interface{}) error {
	for field, allowed := range s.Enums {
		v, ok := fields[field]
		if !ok {
			continue
		}
		str, isString := v.(string)
		if !isString || !slices.Contains(allowed, str) {
			return &ValidationError{Field: field, Reason: fmt.Sprintf("must be one of %q", allowed)}
		}
	}
	return nil
}

// CheckUpdate validates a $set payload.
func (s Schema) CheckUpdate(set map[string]interface{}) error {
	if len(set) == 0 {
		return &ValidationError{Reason: "no fields to update"}
	}
	if err := CheckFieldNames(set); err != nil {
		return err
	}
	for _, field := range s.Immutable {
		if _, ok := set[field]; ok {
			return &ValidationError{Field: field, Reason: "cannot be updated"}
		}
	}
	if err := s.CheckEnums(set); err != nil {
		return err
	}
	if s.Record != nil {
		return Decode(set, s.Record())
	}
	return nil
}

// CheckFieldNames rejects empty and $-prefixed field names.
func CheckFieldNames(fields map[string]interface{}) error {
	for field := range fields {
		if field == "" || strings.HasPrefix(field, "$") {
			return &ValidationError{Field: field, Reason: "invalid field name"}
		}
	}
	return nil
}
