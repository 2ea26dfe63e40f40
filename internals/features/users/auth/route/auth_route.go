package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authController "labelku_backend/internals/features/users/auth/controller"
	"labelku_backend/internals/middlewares"
	authMiddleware "labelku_backend/internals/middlewares/auth"
)

func AuthRoutes(app *fiber.App, db *gorm.DB) {
	ctrl := authController.NewAuthController(db)

	auth := app.Group("/api/auth")
	auth.Post("/register", middlewares.RegisterRateLimiter(), ctrl.Register)
	auth.Post("/login", middlewares.LoginRateLimiter(), ctrl.Login)
	auth.Post("/google", middlewares.LoginRateLimiter(), ctrl.GoogleLogin)

	auth.Get("/me", authMiddleware.AuthMiddleware(db), ctrl.Me)
}
