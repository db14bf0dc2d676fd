package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_KeepsUnknownFieldsInExtra(t *testing.T) {
	body := map[string]interface{}{
		"requesterEmail": "rahim@example.com",
		"hospital":       "Dhaka Medical College",
		"postTime":       float64(123),
		"bagsNeeded":     float64(2),
	}

	var req DonationRequest
	require.NoError(t, Decode(body, &req))
	assert.Equal(t, "rahim@example.com", req.RequesterEmail)
	assert.Equal(t, int64(123), req.PostTime)
	assert.Equal(t, float64(2), req.Extra["bagsNeeded"])

	doc, err := Encode(req)
	require.NoError(t, err)
	assert.Equal(t, "Dhaka Medical College", doc["hospital"])
	assert.Equal(t, float64(2), doc["bagsNeeded"])
	assert.NotContains(t, doc, "donorEmail", "empty known fields are omitted")
}

func TestDecode_WrongTypeIsValidationError(t *testing.T) {
	var u User
	err := Decode(map[string]interface{}{"email": float64(7)}, &u)

	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestSchema_CheckUpdate(t *testing.T) {
	tests := []struct {
		name    string
		schema  Schema
		set     map[string]interface{}
		wantErr string
	}{
		{"empty", RequestSchema, map[string]interface{}{}, "no fields to update"},
		{"immutable postTime", RequestSchema, map[string]interface{}{"postTime": 1}, "postTime: cannot be updated"},
		{"immutable id", BlogSchema, map[string]interface{}{"_id": "x"}, "_id: cannot be updated"},
		{"operator key", UserSchema, map[string]interface{}{"$where": "1"}, "$where: invalid field name"},
		{"bad enum", UserSchema, map[string]interface{}{"role": "root"}, "role: must be one of"},
		{"non string enum", BlogSchema, map[string]interface{}{"blogStatus": true}, "blogStatus: must be one of"},
		{"valid enum", RequestSchema, map[string]interface{}{"requestStatus": RequestDone}, ""},
		{"free form", RequestSchema, map[string]interface{}{"hospital": "Square"}, ""},
		{"object into string field", UserSchema, map[string]interface{}{"avatar": map[string]interface{}{"url": "x"}}, "avatar"},
		{"number into string field", UserSchema, map[string]interface{}{"district": float64(12)}, "district"},
		{"object into unknown field", UserSchema, map[string]interface{}{"address": map[string]interface{}{"city": "Dhaka"}}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.schema.CheckUpdate(tt.set)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
