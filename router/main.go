package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/yarmel/photoshare/config"
	"github.com/yarmel/photoshare/database"
	"github.com/yarmel/photoshare/handlers"
	admin_handlers "github.com/yarmel/photoshare/handlers/admin"
	auth_handlers "github.com/yarmel/photoshare/handlers/auth"
	comment_handlers "github.com/yarmel/photoshare/handlers/comment"
	image_handlers "github.com/yarmel/photoshare/handlers/image"
	user_handlers "github.com/yarmel/photoshare/handlers/user"
	"github.com/yarmel/photoshare/model"
	"github.com/yarmel/photoshare/services"
	"github.com/yarmel/photoshare/utils/cache"
	"github.com/yarmel/photoshare/utils/middleware"
)

// Deps carries everything the route table needs. Built once in the app
// layer; nothing here reads the environment.
type Deps struct {
	Config *config.Config
	Store  database.Storage
	Cache  *cache.RedisCache

	Auth     *services.AuthService
	Users    *services.UsersService
	Images   *services.ImageService
	Comments *services.CommentService
}

func SetupRoutes(app *fiber.App, deps Deps) {
	// Brute force protection and per-route limits fail open without Redis
	var bruteForceProtection *middleware.BruteForceProtection
	if deps.Cache != nil {
		bruteForceProtection = middleware.NewBruteForceProtection(deps.Cache)
	}
	rateLimiter := middleware.NewRateLimiter(deps.Cache)

	authMiddleware := middleware.NewAuthMiddleware(deps.Auth)

	authHandler := auth_handlers.NewAuthHandler(deps.Auth, bruteForceProtection)
	userHandler := user_handlers.NewUserHandler(deps.Users)
	adminHandler := admin_handlers.NewAdminHandler(deps.Auth, deps.Users)
	imageHandler := image_handlers.NewImageHandler(deps.Images)
	commentHandler := comment_handlers.NewCommentHandler(deps.Comments)

	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    deps.Config.AllowedOrigins,
		RateLimitRequests: deps.Config.RateLimit.Requests,
		RateLimitWindow:   deps.Config.RateLimit.Window,
	})

	// Health check endpoint (public)
	app.Get("/ping", handlers.HandleCheckHealth(deps.Store))

	api := app.Group("/api")

	// Auth routes (public)
	authGroup := api.Group("/auth")
	authGroup.Post("/signup", rateLimiter.PerRoute(5, time.Minute), authHandler.Signup)

	// Login with brute force protection
	if bruteForceProtection != nil {
		authGroup.Post("/login", bruteForceProtection.CheckLockout(), rateLimiter.PerRoute(10, time.Minute), authHandler.Login)
	} else {
		authGroup.Post("/login", rateLimiter.PerRoute(10, time.Minute), authHandler.Login)
	}

	authGroup.Get("/refresh_token", rateLimiter.PerRoute(10, time.Minute), authHandler.RefreshToken)

	// Logout validates the token itself so a repeat logout still succeeds
	authGroup.Post("/logout", authHandler.Logout)

	// User profile routes
	users := api.Group("/users")
	users.Get("/my_info", authMiddleware.Required(), userHandler.GetMyInfo)
	users.Patch("/my_info", authMiddleware.Required(), userHandler.UpdateMyInfo)
	users.Get("/:username", userHandler.GetProfile)

	// Admin routes: admin only, no implicit access for other roles
	admin := api.Group("/admin", authMiddleware.Required(), authMiddleware.RequireRoles(model.RoleAdmin))
	admin.Patch("/assign", adminHandler.AssignRole)
	admin.Patch("/ban", adminHandler.Ban)
	admin.Patch("/clear", adminHandler.ClearTokens)
	admin.Get("/getuser/:username", adminHandler.GetUser)
	admin.Delete("/users/:username", adminHandler.DeleteUser)

	// Image routes
	images := api.Group("/images")
	images.Get("/:id", imageHandler.Get)
	images.Post("/", authMiddleware.Required(), rateLimiter.PerRoute(20, time.Minute), imageHandler.Upload)
	images.Get("/", authMiddleware.Required(), imageHandler.ListMine)
	images.Patch("/:id", authMiddleware.Required(), imageHandler.UpdateDescription)
	images.Delete("/:id", authMiddleware.Required(), imageHandler.Delete)

	// Comments nested under images for create/list
	images.Get("/:image_id/comments", commentHandler.ListByImage)
	images.Post("/:image_id/comments", authMiddleware.Required(), rateLimiter.PerRoute(30, time.Minute), commentHandler.Create)

	// Comment edit is author-only (checked in the service); delete is a
	// moderation action open to moderators and admins as an exact set
	comments := api.Group("/comments")
	comments.Patch("/:id", authMiddleware.Required(), commentHandler.Update)
	comments.Delete("/:id", authMiddleware.Required(),
		authMiddleware.RequireRoles(model.RoleModerator, model.RoleAdmin), commentHandler.Delete)
}
