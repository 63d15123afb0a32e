package handler

import (
	"bytes"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"cronicas-api/internal/app"
	"cronicas-api/internal/transport/http/middleware"
	"cronicas-api/internal/transport/http/response"
)

const msgNeedJSON = "Debe enviar JSON"

// bindObject decodes a JSON object body into dst. Empty bodies and non-object payloads are
// rejected before decoding.
func bindObject(c *gin.Context, dst any, invalidMsg string) bool {
	raw, err := c.GetRawData()
	if err != nil {
		response.Error(c, http.StatusBadRequest, msgNeedJSON, err)
		return false
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		response.Error(c, http.StatusBadRequest, msgNeedJSON, nil)
		return false
	}
	if err := binding.JSON.BindBody(raw, dst); err != nil {
		response.Error(c, http.StatusBadRequest, invalidMsg, err)
		return false
	}
	return true
}

// pathID parses a positive numeric :id.
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.Error(c, http.StatusBadRequest, "ID inválido", errors.New("id must be a positive integer"))
		return 0, false
	}
	return uint(id), true
}

func currentUserID(c *gin.Context) (uint, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Token inválido o expirado", app.ErrUnauthenticated)
		return 0, false
	}
	return userID, true
}

// writeError maps service errors onto the HTTP error taxonomy. fallback is the message
// used for unexpected failures.
func writeError(c *gin.Context, err error, fallback string) {
	var verr *app.ValidationError
	var terr *app.ThrottledError

	switch {
	case errors.As(err, &terr):
		c.Header("Retry-After", strconv.Itoa(int(math.Ceil(terr.RetryAfter.Seconds()))))
		response.Error(c, http.StatusTooManyRequests, "Demasiados intentos fallidos, intente más tarde", err)
	case errors.As(err, &verr):
		msg := "Datos inválidos"
		if strings.HasSuffix(verr.Reason, "required") {
			msg = "Falta el campo " + verr.Field
		}
		response.Error(c, http.StatusBadRequest, msg, err)
	case errors.Is(err, app.ErrInvalidInput):
		response.Error(c, http.StatusBadRequest, "Datos inválidos", err)
	case errors.Is(err, app.ErrUnauthenticated):
		response.Error(c, http.StatusUnauthorized, "Token inválido o expirado", err)
	case errors.Is(err, app.ErrUserNotFound):
		response.Error(c, http.StatusNotFound, "Usuario no encontrado", err)
	case errors.Is(err, app.ErrInvalidCredential):
		response.Error(c, http.StatusUnauthorized, "Contraseña incorrecta", err)
	case errors.Is(err, app.ErrUsernameExists):
		response.Error(c, http.StatusConflict, "El username ya está en uso", err)
	case errors.Is(err, app.ErrSessionNotFound):
		response.Error(c, http.StatusNotFound, "Sesión no encontrada o sin permiso", err)
	case errors.Is(err, app.ErrCharacterNotFound):
		response.Error(c, http.StatusNotFound, "Personaje no encontrado", err)
	default:
		slog.ErrorContext(c.Request.Context(), "http.handler_failed", "route", c.FullPath(), "err", err)
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, fallback, err)
	}
}
