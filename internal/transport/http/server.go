package http

import (
	"github.com/gin-gonic/gin"

	appsvc "cronicas-api/internal/app"
	"cronicas-api/internal/bootstrap"
	"cronicas-api/internal/platform/metrics"
	"cronicas-api/internal/repository"
	"cronicas-api/internal/transport/http/handler"
	"cronicas-api/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.RedirectTrailingSlash = false

	m := metrics.New()
	router.Use(
		middleware.RequestID(),
		middleware.Logger(app.Logger),
		middleware.Metrics(m),
		gin.Recovery(),
	)

	userRepo := repository.NewUserRepository(app.DB)
	sessionRepo := repository.NewSessionRepository(app.DB)
	characterRepo := repository.NewCharacterRepository(app.DB)

	publisher := app.EventPublisher()
	authService := appsvc.NewAuthService(
		userRepo,
		app.LoginThrottle(),
		publisher,
		app.Logger,
		appsvc.AuthConfig{
			JWTSecret:     app.Config.Auth.JWTSecret,
			JWTExpiration: app.Config.JWTExpiration(),
			BcryptCost:    app.Config.Auth.BcryptCost,
		},
	)
	sessionService := appsvc.NewSessionService(sessionRepo, publisher, app.Logger)
	characterService := appsvc.NewCharacterService(characterRepo, publisher, app.Logger)

	healthHandler := handler.NewHealthHandler(app)
	authHandler := handler.NewAuthHandler(authService)
	sessionHandler := handler.NewSessionHandler(sessionService, m)
	characterHandler := handler.NewCharacterHandler(characterService, m)

	router.GET("/health", healthHandler.Check)
	router.GET("/metrics", gin.WrapH(m.Handler()))

	router.POST("/login", authHandler.Login)
	router.POST("/users", authHandler.Register)

	requireAuth := middleware.AuthJWT(authService)
	router.GET("/users", requireAuth, authHandler.ListUsers)

	dashboard := router.Group("/dashboard", requireAuth)
	registerResource(dashboard, resourceRoutes{
		list:      sessionHandler.List,
		create:    sessionHandler.Create,
		get:       sessionHandler.Get,
		update:    sessionHandler.Update,
		delete:    sessionHandler.Delete,
		exportPDF: sessionHandler.ExportPDF,
		exportTXT: sessionHandler.ExportTXT,
	})

	personajes := router.Group("/personajes", requireAuth)
	registerResource(personajes, resourceRoutes{
		list:      characterHandler.List,
		create:    characterHandler.Create,
		get:       characterHandler.Get,
		update:    characterHandler.Update,
		delete:    characterHandler.Delete,
		exportPDF: characterHandler.ExportPDF,
		exportTXT: characterHandler.ExportTXT,
	})

	return router
}

type resourceRoutes struct {
	list, create, get, update, delete gin.HandlerFunc
	exportPDF, exportTXT              gin.HandlerFunc
}

// registerResource mounts the owner-scoped CRUD and export routes. Both "" and "/" map to
// the collection so clients may send either form.
func registerResource(g *gin.RouterGroup, r resourceRoutes) {
	for _, root := range []string{"", "/"} {
		g.GET(root, r.list)
		g.POST(root, r.create)
	}
	g.GET("/:id", r.get)
	g.PUT("/:id", r.update)
	g.DELETE("/:id", r.delete)
	g.GET("/:id/pdf", r.exportPDF)
	g.GET("/:id/txt", r.exportTXT)
}
