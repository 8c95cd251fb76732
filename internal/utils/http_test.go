package utils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSONError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSONError(w, "boom", http.StatusBadRequest)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"boom"}`, w.Body.String())
}

func TestDecodeJSON(t *testing.T) {
	type body struct {
		Quantity int `json:"quantity"`
	}

	t.Run("Valid", func(t *testing.T) {
		var b body
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"quantity":3}`))
		require.NoError(t, DecodeJSON(r, &b))
		assert.Equal(t, 3, b.Quantity)
	})

	t.Run("Empty body", func(t *testing.T) {
		b := body{Quantity: 1}
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
		require.NoError(t, DecodeJSON(r, &b))
		assert.Equal(t, 1, b.Quantity)
	})

	t.Run("Unknown field", func(t *testing.T) {
		var b body
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"qty":3}`))
		assert.Error(t, DecodeJSON(r, &b))
	})

	t.Run("Malformed", func(t *testing.T) {
		var b body
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
		assert.Error(t, DecodeJSON(r, &b))
	})
}
