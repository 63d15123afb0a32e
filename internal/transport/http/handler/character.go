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

// CharacterHandler serves /personajes. Bodies are wrapped in {"data": ...}.
type CharacterHandler struct {
	characterService *app.CharacterService
	metrics          *metrics.Metrics
}

type CharacterResponse struct {
	ID          uint            `json:"idpersonaje"`
	Cronica     *string         `json:"cronica"`
	Juego       *string         `json:"juego"`
	Nombre      string          `json:"nombre"`
	Apellido    string          `json:"apellido"`
	Genero      *string         `json:"genero"`
	Edad        *int            `json:"edad"`
	Ocupacion   *string         `json:"ocupacion"`
	Etnia       *string         `json:"etnia"`
	Descripcion *string         `json:"descripcion"`
	Historia    *string         `json:"historia"`
	Inventario  model.Inventory `json:"inventario"`
	Notas       *string         `json:"notas"`
}

type dataEnvelope struct {
	Msg  string `json:"msg,omitempty"`
	Data any    `json:"data"`
}

type characterID struct {
	ID uint `json:"idpersonaje"`
}

func NewCharacterHandler(characterService *app.CharacterService, m *metrics.Metrics) *CharacterHandler {
	return &CharacterHandler{characterService: characterService, metrics: m}
}

func toCharacterResponse(ch model.Character) CharacterResponse {
	return CharacterResponse{
		ID:          ch.ID,
		Cronica:     ch.Cronica,
		Juego:       ch.Juego,
		Nombre:      ch.Nombre,
		Apellido:    ch.Apellido,
		Genero:      ch.Genero,
		Edad:        ch.Edad,
		Ocupacion:   ch.Ocupacion,
		Etnia:       ch.Etnia,
		Descripcion: ch.Descripcion,
		Historia:    ch.Historia,
		Inventario:  ch.Inventory(),
		Notas:       ch.Notas,
	}
}

func (h *CharacterHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	characters, err := h.characterService.ListCharacters(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err, "Error al obtener personajes")
		return
	}

	out := make([]CharacterResponse, 0, len(characters))
	for _, ch := range characters {
		out = append(out, toCharacterResponse(ch))
	}
	c.JSON(http.StatusOK, dataEnvelope{Data: out})
}

func (h *CharacterHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var fields app.CharacterFields
	if !bindObject(c, &fields, "Datos inválidos") {
		return
	}

	character, err := h.characterService.CreateCharacter(c.Request.Context(), userID, fields)
	if err != nil {
		writeError(c, err, "Error al crear personaje")
		return
	}
	c.JSON(http.StatusCreated, dataEnvelope{Msg: "Personaje creado", Data: characterID{ID: character.ID}})
}

func (h *CharacterHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	character, err := h.characterService.GetCharacter(c.Request.Context(), userID, id)
	if err != nil {
		writeError(c, err, "Error al obtener personaje")
		return
	}
	c.JSON(http.StatusOK, dataEnvelope{Data: toCharacterResponse(*character)})
}

func (h *CharacterHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var fields app.CharacterFields
	if !bindObject(c, &fields, "Datos inválidos") {
		return
	}

	if _, err := h.characterService.UpdateCharacter(c.Request.Context(), userID, id, fields); err != nil {
		writeError(c, err, "Error al actualizar personaje")
		return
	}
	response.Message(c, http.StatusOK, "Personaje actualizado")
}

func (h *CharacterHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.characterService.DeleteCharacter(c.Request.Context(), userID, id); err != nil {
		writeError(c, err, "Error al eliminar personaje")
		return
	}
	response.Message(c, http.StatusOK, "Personaje eliminado")
}

func (h *CharacterHandler) ExportPDF(c *gin.Context) { h.export(c, formatPDF) }

func (h *CharacterHandler) ExportTXT(c *gin.Context) { h.export(c, formatTXT) }

func (h *CharacterHandler) export(c *gin.Context, format string) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	character, err := h.characterService.GetCharacter(c.Request.Context(), userID, id)
	if err != nil {
		writeError(c, err, "Error al exportar personaje")
		return
	}
	sendDocument(c, h.metrics, "character", format, export.FromCharacter(*character))
}
