package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/noah51022/schedule-sensei-sync/internal/handler"    // import the handlers that implement business logic
	"github.com/noah51022/schedule-sensei-sync/internal/middleware" // import middleware for JWT authentication
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Load balancers and monitoring systems hit this to verify the
	// service is up.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies the
// necessary middleware.  Unauthenticated operations live under /v1/auth,
// while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	// Operations that do not require an existing session (register,
	// login, refresh).  Each handler generates or exchanges tokens.
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Rotates the refresh token.
	g.POST("/refresh", a.Refresh)
	// Issues a new access token without rotating the refresh token.
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout does not require JWT authentication: the handler accepts a
	// JSON body containing a `refresh_token` and invalidates that token,
	// or revokes every session when only a bearer token is supplied.
	g.POST("/logout", a.Logout)

	// Protected endpoints live under /v1; the JWTAuth middleware runs
	// before every handler registered on this group.
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)

	// Alias so clients can call either /v1/auth/logout or /v1/logout
	// with a valid refresh token in the body to terminate a session.
	e.POST("/v1/logout", a.Logout)
}

// RegisterEvents registers the scheduling endpoints.  Everything here
// requires a valid access token; row ownership is enforced inside the
// handlers by scoping mutations to the JWT subject.
func RegisterEvents(e *echo.Echo, ev *handler.EventHandler, av *handler.AvailabilityHandler, ch *handler.ChatHandler, jwtSecret string) {
	g := e.Group("/v1/events")
	g.Use(middleware.JWTAuth(jwtSecret))

	g.POST("", ev.Create)
	g.GET("/:id", ev.Get)
	// Host only; other callers get 403.
	g.PUT("/:id/range", ev.UpdateRange)

	// The interpreter boundary: free text in, an applied change set and
	// a confirmation out.
	g.POST("/:id/chat", ch.Chat)

	g.GET("/:id/availability", av.Get)
	g.DELETE("/:id/availability", av.Delete)
	g.GET("/:id/recommendations", av.Recommendations)
}
