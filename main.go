package main

import (
	"log"

	"bluelearn/config"
	"bluelearn/database"
	authRoutes "bluelearn/routers/authRoutes"
	courseRoutes "bluelearn/routers/courseRoutes"
	partnerRoutes "bluelearn/routers/partnerRoutes"
	superAdminRoutes "bluelearn/routers/superAdminRoutes"
	userRoutes "bluelearn/routers/userRoutes"
	"bluelearn/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	// Serve uploaded media from the public folder
	app.Static("/", "./public")

	authRoutes.SetupAuthRoutes(app)
	userRoutes.SetupUserRoutes(app)
	courseRoutes.SetupCourseRoutes(app)
	courseRoutes.SetupInstructorCourseRoutes(app)
	partnerRoutes.SetupPartnerRoutes(app)
	superAdminRoutes.SetupSuperAdminRoutes(app)

	utils.InitializeEnrollmentScheduler()
	utils.InitializeBackupScheduler()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
