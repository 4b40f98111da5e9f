package userRoutes

import (
	userController "bluelearn/controllers/userControllers"
	"bluelearn/middleware"
	userValidator "bluelearn/validators/userValidator"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App) {
	userGroup := app.Group("/user", middleware.JWTMiddleware)

	userGroup.Get("/profile", userController.GetProfile)
	userGroup.Put("/profile", userValidator.UpdateProfile(), userController.UpdateProfile)
	userGroup.Post("/profile/image", userController.UploadProfileImage)

	userGroup.Get("/notifications", userValidator.List(), userController.NotificationList)
	userGroup.Patch("/notification/:id/read", userValidator.NotificationIDParam(), userController.MarkNotificationRead)

	userGroup.Post("/message", userValidator.SendMessage(), userController.SendMessage)
	userGroup.Get("/messages", userValidator.List(), userController.MessageList)
	userGroup.Patch("/message/:id/read", userValidator.MessageIDParam(), userController.MarkMessageRead)
}
