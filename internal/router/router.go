package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/eventhub/backend/api/handler"
)

type Handlers struct {
	Event   *apiHandler.EventHandler
	Request *apiHandler.RequestHandler
	Rsvp    *apiHandler.RsvpHandler
	Health  *apiHandler.HealthHandler
}

type Middleware func(fasthttp.RequestHandler) fasthttp.RequestHandler

func New(handlers Handlers, auth Middleware, admin Middleware) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Public event read surface
	r.GET("/api/v1/events", handlers.Event.List)
	r.GET("/api/v1/events/{id}", handlers.Event.Get)
	r.GET("/api/v1/events/{id}/images/{filename}", handlers.Event.ServeImage)

	// Event management (owner checks live in the use case)
	r.GET("/api/v1/events/my", auth(handlers.Event.Mine))
	r.DELETE("/api/v1/events/{id}", auth(handlers.Event.Delete))
	r.POST("/api/v1/events/{id}/images", auth(handlers.Event.UploadImages))
	r.DELETE("/api/v1/events/{id}/images/{filename}", auth(handlers.Event.DeleteImage))

	// Attendance
	r.POST("/api/v1/events/{id}/rsvp", auth(handlers.Rsvp.Toggle))
	r.GET("/api/v1/events/{id}/rsvp", auth(handlers.Rsvp.Status))
	r.POST("/api/v1/events/{id}/rating", auth(handlers.Rsvp.Rate))
	r.GET("/api/v1/rsvps/my", auth(handlers.Rsvp.MyEvents))

	// Change requests
	r.POST("/api/v1/requests", auth(handlers.Request.Submit))
	r.GET("/api/v1/requests/my", auth(handlers.Request.Mine))
	r.POST("/api/v1/requests/{id}/images", auth(handlers.Request.UploadImages))
	r.GET("/api/v1/requests/{id}/images/{filename}", auth(handlers.Request.ServeImage))
	r.DELETE("/api/v1/requests/{id}/images/{filename}", auth(handlers.Request.DeleteImage))

	// Moderation (admin only)
	r.GET("/api/v1/requests/pending", auth(admin(handlers.Request.Pending)))
	r.POST("/api/v1/requests/{id}/approve", auth(admin(handlers.Request.Approve)))
	r.POST("/api/v1/requests/{id}/reject", auth(admin(handlers.Request.Reject)))

	return r
}
