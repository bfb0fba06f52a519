package handlers

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/gin-gonic/gin"
)

// BindNestedOrFlat binds the request body to obj, accepting both wrapped
// payloads like {"client": {...}} and flat ones like {...}. Rails-style
// clients send the wrapped form; everything else sends flat JSON.
func BindNestedOrFlat(c *gin.Context, key string, obj interface{}) error {
	var bodyBytes []byte
	if c.Request.Body != nil {
		bodyBytes, _ = io.ReadAll(c.Request.Body)
	}
	// Restore body so later middleware can still read it
	c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(bodyBytes, &wrapped); err == nil {
		if val, ok := wrapped[key]; ok {
			return json.Unmarshal(val, obj)
		}
	}

	return json.Unmarshal(bodyBytes, obj)
}
