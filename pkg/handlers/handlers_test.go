package handlers_test

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/warden/pkg/handlers"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRespondJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	handlers.RespondJSON(rec, http.StatusCreated, map[string]string{"tier": "HIGH"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, "HIGH", got["tier"])
}

func TestRespondError(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusInternalServerError} {
		rec := httptest.NewRecorder()
		handlers.RespondError(rec, discard(), status, errors.New("system not found"))

		assert.Equal(t, status, rec.Code)

		var got map[string]string
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, "system not found", got["error"])
	}
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	t.Run("valid", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"screener"}`))

		var p payload
		require.NoError(t, handlers.DecodeJSON(rec, req, 1024, &p))
		assert.Equal(t, "screener", p.Name)
	})

	t.Run("unknown field", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/", strings.NewReader(`{"nmae":"screener"}`))

		var p payload
		err := handlers.DecodeJSON(rec, req, 1024, &p)
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, handlers.DecodeStatus(err))
	})

	t.Run("too large", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"`+strings.Repeat("x", 64)+`"}`))

		var p payload
		err := handlers.DecodeJSON(rec, req, 16, &p)
		assert.ErrorIs(t, err, handlers.ErrBodyTooLarge)
		assert.Equal(t, http.StatusRequestEntityTooLarge, handlers.DecodeStatus(err))
	})
}
