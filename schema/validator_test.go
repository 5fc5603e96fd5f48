package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedSchemaIsJSON(t *testing.T) {
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(Embedded(), &doc))
	assert.Equal(t, "object", doc["type"])
}

func TestValidator(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	tests := []struct {
		name    string
		doc     map[string]interface{}
		wantErr string
	}{
		{
			name: "valid",
			doc: map[string]interface{}{
				"version": "1.0",
				"api":     map[string]interface{}{"base_url": "http://localhost:8080", "rate_limit": 5},
				"tui":     map[string]interface{}{"placement": "top"},
			},
		},
		{
			name:    "unknown top-level key",
			doc:     map[string]interface{}{"services": map[string]interface{}{}},
			wantErr: "additionalProperties",
		},
		{
			name:    "bad placement",
			doc:     map[string]interface{}{"tui": map[string]interface{}{"placement": "sideways"}},
			wantErr: "/tui/placement",
		},
		{
			name:    "negative rate limit",
			doc:     map[string]interface{}{"api": map[string]interface{}{"rate_limit": -1}},
			wantErr: "/api/rate_limit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.doc)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
