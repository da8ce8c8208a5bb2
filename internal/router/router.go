package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/planora/backend/api/handler"
)

type Handlers struct {
	Auth      *apiHandler.AuthHandler
	Task      *apiHandler.TaskHandler
	Prefs     *apiHandler.PrefsHandler
	Reminders *apiHandler.RemindersHandler
	Health    *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Auth routes
	r.POST("/api/v1/auth/login", handlers.Auth.Login)
	r.POST("/api/v1/auth/logout", authMiddleware(handlers.Auth.Logout))

	// Protected routes
	r.GET("/api/v1/tasks", authMiddleware(handlers.Task.List))
	r.POST("/api/v1/tasks", authMiddleware(handlers.Task.Create))
	r.PUT("/api/v1/tasks/{id}", authMiddleware(handlers.Task.Update))
	r.DELETE("/api/v1/tasks/{id}", authMiddleware(handlers.Task.Delete))
	r.POST("/api/v1/tasks/{id}/toggle", authMiddleware(handlers.Task.Toggle))
	r.PUT("/api/v1/tasks/{id}/category", authMiddleware(handlers.Task.MoveCategory))
	r.POST("/api/v1/tasks/suggest", authMiddleware(handlers.Task.Suggest))

	r.GET("/api/v1/prefs", authMiddleware(handlers.Prefs.Get))
	r.PUT("/api/v1/prefs/theme", authMiddleware(handlers.Prefs.SetTheme))
	r.PUT("/api/v1/prefs/notifications", authMiddleware(handlers.Prefs.SetPermission))

	r.GET("/api/v1/reminders/stream", authMiddleware(handlers.Reminders.Stream))

	return r
}
