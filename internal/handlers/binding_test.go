package handlers

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type bindTarget struct {
	Name string `json:"name"`
	CUIT string `json:"cuit"`
}

func TestBindNestedOrFlat(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name        string
		key         string
		body        string
		expected    bindTarget
		expectError bool
	}{
		{
			name:     "wrapped payload",
			key:      "client",
			body:     `{"client": {"name": "Acme SRL", "cuit": "30-11111111-1"}}`,
			expected: bindTarget{Name: "Acme SRL", CUIT: "30-11111111-1"},
		},
		{
			name:     "flat payload",
			key:      "client",
			body:     `{"name": "Acme SRL", "cuit": "30-11111111-1"}`,
			expected: bindTarget{Name: "Acme SRL", CUIT: "30-11111111-1"},
		},
		{
			name:     "missing wrapper key falls back to flat",
			key:      "client",
			body:     `{"other": "x", "name": "Sur SA", "cuit": "30-22222222-2"}`,
			expected: bindTarget{Name: "Sur SA", CUIT: "30-22222222-2"},
		},
		{
			name:     "different wrapper key",
			key:      "sale",
			body:     `{"sale": {"name": "Factura A 0001", "cuit": ""}}`,
			expected: bindTarget{Name: "Factura A 0001"},
		},
		{
			name:        "type mismatch",
			key:         "client",
			body:        `{"name": "Eve", "cuit": 123}`,
			expectError: true,
		},
		{
			name:        "wrapped type mismatch",
			key:         "client",
			body:        `{"client": {"name": "Frank", "cuit": 123}}`,
			expectError: true,
		},
		{
			name:        "wrapper value is not an object",
			key:         "client",
			body:        `{"client": "some string"}`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("POST", "/", bytes.NewBufferString(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			var result bindTarget
			err := BindNestedOrFlat(c, tt.key, &result)

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, result)
			}
		})
	}
}
