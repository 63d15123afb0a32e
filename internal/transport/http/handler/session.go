package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cronicas-api/internal/app"
	"cronicas-api/internal/export"
	"cronicas-api/internal/model"
	"cronicas-api/internal/platform/metrics"
	"cronicas-api/internal/transport/http/response"
)

// SessionHandler serves /dashboard.
type SessionHandler struct {
	sessionService *app.SessionService
	metrics        *metrics.Metrics
}

type SessionResponse struct {
	ID             uint    `json:"idsesion"`
	Cronica        *string `json:"cronica"`
	Juego          *string `json:"juego"`
	NumeroDeSesion *int    `json:"numero_de_sesion"`
	Fecha          string  `json:"fecha"`
	Resumen        *string `json:"resumen"`
}

type SessionCreatedResponse struct {
	Msg string `json:"msg"`
	ID  uint   `json:"idsesion"`
}

func NewSessionHandler(sessionService *app.SessionService, m *metrics.Metrics) *SessionHandler {
	return &SessionHandler{sessionService: sessionService, metrics: m}
}

func toSessionResponse(s model.Session) SessionResponse {
	return SessionResponse{
		ID:             s.ID,
		Cronica:        s.Cronica,
		Juego:          s.Juego,
		NumeroDeSesion: s.NumeroDeSesion,
		Fecha:          s.Fecha.Format(model.DateLayout),
		Resumen:        s.Resumen,
	}
}

func (h *SessionHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	sessions, err := h.sessionService.ListSessions(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err, "Error al obtener dashboard")
		return
	}

	out := make([]SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, toSessionResponse(s))
	}
	c.JSON(http.StatusOK, out)
}

func (h *SessionHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var fields app.SessionFields
	if !bindObject(c, &fields, "Datos inválidos") {
		return
	}

	session, err := h.sessionService.CreateSession(c.Request.Context(), userID, fields)
	if err != nil {
		writeError(c, err, "Error al crear sesión")
		return
	}
	c.JSON(http.StatusCreated, SessionCreatedResponse{Msg: "Sesión creada exitosamente", ID: session.ID})
}

func (h *SessionHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	session, err := h.sessionService.GetSession(c.Request.Context(), userID, id)
	if err != nil {
		writeError(c, err, "Error al obtener sesión")
		return
	}
	c.JSON(http.StatusOK, toSessionResponse(*session))
}

func (h *SessionHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var fields app.SessionFields
	if !bindObject(c, &fields, "Datos inválidos") {
		return
	}

	if _, err := h.sessionService.UpdateSession(c.Request.Context(), userID, id, fields); err != nil {
		writeError(c, err, "Error al actualizar sesión")
		return
	}
	response.Message(c, http.StatusOK, "Sesión actualizada exitosamente")
}

func (h *SessionHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.sessionService.DeleteSession(c.Request.Context(), userID, id); err != nil {
		writeError(c, err, "Error al eliminar sesión")
		return
	}
	response.Message(c, http.StatusOK, "Sesión eliminada exitosamente")
}

func (h *SessionHandler) ExportPDF(c *gin.Context) { h.export(c, formatPDF) }

func (h *SessionHandler) ExportTXT(c *gin.Context) { h.export(c, formatTXT) }

func (h *SessionHandler) export(c *gin.Context, format string) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	session, err := h.sessionService.GetSession(c.Request.Context(), userID, id)
	if err != nil {
		writeError(c, err, "Error al exportar sesión")
		return
	}
	sendDocument(c, h.metrics, "session", format, export.FromSession(*session))
}
