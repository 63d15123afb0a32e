package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cronicas-api/internal/app"
	"cronicas-api/internal/model"
)

type AuthHandler struct {
	authService *app.AuthService
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Nombre   string `json:"nombre"`
	Apellido string `json:"apellido"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Success     bool        `json:"success"`
	Msg         string      `json:"msg"`
	AccessToken string      `json:"access_token"`
	Usuario     *model.User `json:"usuario"`
}

type RegisterResponse struct {
	Msg     string      `json:"msg"`
	Usuario *model.User `json:"usuario"`
}

func NewAuthHandler(authService *app.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindObject(c, &req, "Faltan campos username y password") {
		return
	}

	result, err := h.authService.Login(c.Request.Context(), app.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		writeError(c, err, "Error al iniciar sesión")
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Success:     true,
		Msg:         "Login exitoso",
		AccessToken: result.Token,
		Usuario:     result.User,
	})
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindObject(c, &req, "Datos inválidos") {
		return
	}

	user, err := h.authService.Register(c.Request.Context(), app.RegisterInput{
		Nombre:   req.Nombre,
		Apellido: req.Apellido,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		writeError(c, err, "Error al crear el usuario")
		return
	}

	c.JSON(http.StatusCreated, RegisterResponse{
		Msg:     "Usuario creado exitosamente",
		Usuario: user,
	})
}

func (h *AuthHandler) ListUsers(c *gin.Context) {
	users, err := h.authService.ListUsers(c.Request.Context())
	if err != nil {
		writeError(c, err, "Error al obtener usuarios")
		return
	}
	c.JSON(http.StatusOK, users)
}
