package authRoutes

import (
	authController "bluelearn/controllers/auth"
	"bluelearn/middleware"
	authValidator "bluelearn/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/auth")

	authGroup.Post("/signup", authValidator.Signup(), authController.Signup)
	authGroup.Post("/login", authValidator.Login(), authController.Login)
	authGroup.Get("/login/history", middleware.JWTMiddleware, authValidator.LoginHistoryList(), authController.LoginHistoryList)
	authGroup.Post("/send/otp", authValidator.SendOTP(), authController.SendOTP)
	authGroup.Patch("/verify/otp", authValidator.VerifyOTP(), authController.VerifyOTP)
	authGroup.Patch("/reset/password", authValidator.ResetPassword(), authController.ResetPassword)
	authGroup.Put("/change/password", middleware.JWTMiddleware, authValidator.ChangePassword(), authController.ChangePassword)
}
