package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"weshare/internal/http/middleware"
	"weshare/internal/service"
)

// Services bundles the use cases the HTTP layer talks to.
type Services struct {
	Auth          service.AuthService
	ExternalLogin service.ExternalLoginService
	Users         service.UserService
	Schedules     service.ScheduleService
	ScheduleQuery service.ScheduleQueryService
	Comments      service.CommentService
	Likes         service.LikeService
}

// RouteOptions carries transport settings that are not use cases.
type RouteOptions struct {
	Cookie RefreshCookie
	// LoginLimiter guards the login endpoint. Nil disables rate limiting.
	LoginLimiter fiber.Handler
	AuthEvents   middleware.AuthEventRecorder
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, db *sql.DB, svc Services, opts RouteOptions) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	api := app.Group("/api/v1", middleware.Skip(middleware.Authenticate(svc.Auth, opts.AuthEvents), "/api/v1/auth/"))

	auth := api.Group("/auth")
	auth.Post("/signup", Signup(svc.Auth))
	auth.Get("/signup/duplicate-email", CheckDuplicateEmail(svc.Auth))
	auth.Get("/signup/duplicate-name", CheckDuplicateName(svc.Auth))
	login := []fiber.Handler{Login(svc.Auth, opts.Cookie)}
	if opts.LoginLimiter != nil {
		login = append([]fiber.Handler{opts.LoginLimiter}, login...)
	}
	auth.Post("/login", login...)
	auth.Get("/reissue-token", ReissueToken(svc.Auth, opts.Cookie))
	auth.Post("/logout", Logout(svc.Auth, opts.Cookie))
	auth.Get("/callback/:provider", OAuthCallback(svc.ExternalLogin, opts.Cookie))

	users := api.Group("/users")
	users.Get("/me", Me(svc.Users))
	users.Post("/me/profile-image", UploadProfileImage(svc.Users))

	trip := api.Group("/trip")
	trip.Post("/schedule", CreateSchedule(svc.Schedules))
	trip.Get("/schedules", ListSchedules(svc.ScheduleQuery))
	trip.Get("/schedules/:scheduleId", GetSchedule(svc.ScheduleQuery))
	trip.Put("/schedules/:scheduleId", UpdateSchedule(svc.Schedules))
	trip.Delete("/schedules/:scheduleId", DeleteSchedule(svc.Schedules))

	trip.Get("/schedules/:scheduleId/comments", ListComments(svc.Comments))
	trip.Post("/schedules/:scheduleId/comments", CreateComment(svc.Comments))
	trip.Get("/schedules/:scheduleId/comments/:commentId/replies", ListReplies(svc.Comments))
	trip.Patch("/schedules/:scheduleId/comments/:commentId", UpdateComment(svc.Comments))
	trip.Delete("/schedules/:scheduleId/comments/:commentId", DeleteComment(svc.Comments))

	trip.Post("/schedules/:scheduleId/likes", LikeSchedule(svc.Likes))
	trip.Delete("/schedules/:scheduleId/likes", UnlikeSchedule(svc.Likes))
	trip.Post("/schedules/:scheduleId/comments/:commentId/likes", LikeComment(svc.Likes))
	trip.Delete("/schedules/:scheduleId/comments/:commentId/likes", UnlikeComment(svc.Likes))
}
