package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cronicas-api/internal/app"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestWriteError(t *testing.T) {
	cases := []struct {
		err    error
		status int
		msg    string
	}{
		{err: &app.ValidationError{Field: "nombre", Reason: "is required"}, status: 400, msg: "Falta el campo nombre"},
		{err: &app.ValidationError{Field: "edad", Reason: "must not be negative"}, status: 400, msg: "Datos inválidos"},
		{err: app.ErrInvalidInput, status: 400, msg: "Datos inválidos"},
		{err: app.ErrUnauthenticated, status: 401, msg: "Token inválido o expirado"},
		{err: app.ErrUserNotFound, status: 404, msg: "Usuario no encontrado"},
		{err: app.ErrInvalidCredential, status: 401, msg: "Contraseña incorrecta"},
		{err: app.ErrUsernameExists, status: 409, msg: "El username ya está en uso"},
		{err: fmt.Errorf("lookup: %w", app.ErrSessionNotFound), status: 404, msg: "Sesión no encontrada o sin permiso"},
		{err: app.ErrCharacterNotFound, status: 404, msg: "Personaje no encontrado"},
		{err: errors.New("disk on fire"), status: 500, msg: "fallback"},
	}
	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			writeError(c, tc.err, "fallback")

			require.Equal(t, tc.status, rec.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.msg, body["msg"])
			assert.Equal(t, tc.err.Error(), body["error"])
		})
	}
}

func TestWriteErrorThrottled(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/login", nil)

	writeError(c, &app.ThrottledError{RetryAfter: 1500 * time.Millisecond}, "fallback")

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("Retry-After"))
}

func TestPathID(t *testing.T) {
	for raw, want := range map[string]uint{"1": 1, "42": 42} {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Params = gin.Params{{Key: "id", Value: raw}}
		id, ok := pathID(c)
		assert.True(t, ok)
		assert.Equal(t, want, id)
	}

	for _, raw := range []string{"", "0", "-1", "abc", "1.5", "99999999999999999999999"} {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		c.Params = gin.Params{{Key: "id", Value: raw}}
		_, ok := pathID(c)
		assert.False(t, ok, raw)
		assert.Equal(t, http.StatusBadRequest, rec.Code, raw)
	}
}
