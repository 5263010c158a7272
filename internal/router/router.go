// Package router wires the HTTP routes to their handlers and
// middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/tablebook/restaurant-reservation/internal/config"
	"github.com/tablebook/restaurant-reservation/internal/handler"
	"github.com/tablebook/restaurant-reservation/internal/middleware"
	"github.com/tablebook/restaurant-reservation/internal/model"
)

// Handlers bundles every handler the router registers.
type Handlers struct {
	Auth         *handler.AuthHandler
	Users        *handler.UserHandler
	Reservations *handler.ReservationHandler
	Tables       *handler.TableHandler
}

// Register attaches all routes to the Echo instance.  Public routes
// are rate limited per client IP; everything under the authenticated
// group additionally requires a valid access token, and admin routes
// require the admin role on top.
func Register(e *echo.Echo, cfg config.Config, h Handlers, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	limiter := middleware.RateLimit(config.LoadRateLimitConfig(), rdb)

	api := e.Group("/api", limiter)
	api.POST("/register", h.Users.Register)
	api.POST("/login", h.Auth.Login)
	api.POST("/refresh", h.Auth.Refresh)

	auth := api.Group("", middleware.JWTAuth(cfg.JWTSecret))
	auth.POST("/logout", h.Auth.Logout)
	auth.GET("/me", h.Auth.Me)
	auth.PUT("/users/:id", h.Users.Update)
	auth.GET("/tables/seats", h.Tables.SeatOptions, middleware.CacheGET(config.LoadCacheConfig(), rdb))
	auth.GET("/reservations", h.Reservations.List)
	auth.POST("/reservations", h.Reservations.Store)

	admin := auth.Group("", middleware.RequireRole(model.RoleAdmin))
	admin.GET("/users", h.Users.List)
	admin.GET("/users/selectable", h.Users.Selectable)
	admin.POST("/reservations/for-user", h.Reservations.StoreForUser)
	admin.POST("/reservations/by-phone", h.Reservations.StoreByPhone)
	admin.DELETE("/reservations/:id", h.Reservations.Destroy)
}
