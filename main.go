package main

import (
	"log"

	"lms/config"
	"lms/database"
	analyticsRoutes "lms/routers/analyticsRoutes"
	authRoutes "lms/routers/authRoutes"
	checkoutRoutes "lms/routers/checkoutRoutes"
	courseRoutes "lms/routers/courseRoutes"
	paymentRoutes "lms/routers/paymentRoutes"
	progressRoutes "lms/routers/progressRoutes"
	"lms/utils"

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
		AllowMethods: "GET,POST,PUT,DELETE",        // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	authRoutes.SetupAuthRoutes(app)
	courseRoutes.SetupCourseRoutes(app)
	courseRoutes.SetupAdminCourseRoutes(app)
	checkoutRoutes.SetupCheckoutRoutes(app)
	progressRoutes.SetupProgressRoutes(app)
	paymentRoutes.SetupPaymentRoutes(app)
	analyticsRoutes.SetupAnalyticsRoutes(app)

	// Out-of-band repair of payment records left without their grant
	utils.InitializeReconciler()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
