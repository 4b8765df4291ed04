package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"examprep/config"
	"examprep/database"
	"examprep/logger"
	authRoutes "examprep/routers/authRoutes"
	courseRoutes "examprep/routers/courseRoutes"
	internalRoutes "examprep/routers/internalRoutes"
	studyRoutes "examprep/routers/studyRoutes"
	"examprep/services"
	"examprep/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig

	appLog, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer appLog.Sync()

	database.ConnectDb()

	svc := services.Init(database.Database.Db, cfg, appLog)
	utils.InitMailer(cfg.SendGridAPIKey, cfg.SendGridFromEmail, cfg.SendGridFromName, appLog)

	scheduler, err := utils.InitializeStudySchedulers(cfg.QuizTickSpec, cfg.SessionSweepSpec, svc.Sessions, appLog)
	if err != nil {
		log.Fatalf("Failed to start study schedulers: %v", err)
	}

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",        // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	authRoutes.SetupAuthRoutes(app)
	courseRoutes.SetupCourseRoutes(app)
	courseRoutes.SetupAdminCourseRoutes(app)
	studyRoutes.SetupStudyRoutes(app)
	internalRoutes.SetupInternalRoutes(app, cfg.CollaboratorToken)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit

		log.Println("Shutting down...")
		<-scheduler.Stop().Done()
		if err := app.Shutdown(); err != nil {
			log.Printf("Error shutting down server: %v", err)
		}
	}()

	log.Printf("Server is running on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Printf("Server stopped: %v", err)
	}

	if err := svc.Close(); err != nil {
		log.Printf("Error closing services: %v", err)
	}
}
