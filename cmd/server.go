package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Abraxas-365/hirehub/pkg/config"
	"github.com/Abraxas-365/hirehub/pkg/httpx"
	"github.com/Abraxas-365/hirehub/pkg/logx"
	"github.com/Abraxas-365/hirehub/recruitment/application/applicationapi"
	"github.com/Abraxas-365/hirehub/recruitment/banner/bannerapi"
	"github.com/Abraxas-365/hirehub/recruitment/candidate/candidateapi"
	"github.com/Abraxas-365/hirehub/recruitment/candidate/candidateauth"
	"github.com/Abraxas-365/hirehub/recruitment/job/jobapi"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// room for a 10MB résumé plus multipart framing
const bodyLimit = 12 * 1024 * 1024

func main() {
	// 1. Configuration and Logger
	cfg, err := config.Load()
	if err != nil {
		logx.Fatalf("Invalid configuration: %v", err)
	}
	logx.SetLevel(logx.ParseLevel(cfg.LogLevel))

	if len(os.Args) > 1 && os.Args[1] == "issue-token" {
		os.Exit(runIssueToken(cfg, os.Args[2:]))
	}

	logx.Info("Starting HireHub API Server...")

	// 2. Initialize Dependency Container
	container := NewContainer(cfg)
	defer container.Close()

	// 3. Background projection workers
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	container.ProjectionWorker.Start(workerCtx)

	// 4. Create Fiber App with Config
	app := fiber.New(fiber.Config{
		AppName:               "HireHub API",
		DisableStartupMessage: true,
		BodyLimit:             bodyLimit,
		ErrorHandler:          httpx.ErrorHandler,
	})

	// 5. Global Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*", // Configure for production
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, PATCH, HEAD",
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(requestTimeout(cfg.RequestTimeout))

	// 6. Health Check
	app.Get("/health", func(c *fiber.Ctx) error {
		checks := container.Health(c.UserContext())
		status := "ok"
		for _, up := range checks {
			if !up {
				status = "degraded"
			}
		}
		return c.JSON(fiber.Map{
			"status": status,
			"checks": checks,
			"store":  cfg.StoreDriver,
		})
	})

	// 7. Register Routes

	// Jobs: /api/jobs
	jobapi.RegisterRoutes(app, container.JobHandlers, container.AuthMiddleware, container.CandidateTokens)

	// Banners: /api/banners
	bannerapi.RegisterRoutes(app, container.BannerHandlers, container.AuthMiddleware)

	// Candidates (operator API): /api/candidates
	candidateapi.RegisterRoutes(app, container.CandidateHandlers, container.AuthMiddleware)

	// Applications (operator API): /api/applications
	applicationapi.RegisterRoutes(app, container.ApplicationHandlers, container.AuthMiddleware)

	// Candidate portal: /api/auth/*, /api/me/*, /api/uploads/*
	candidateauth.RegisterRoutes(app, container.CandidateAuthHandlers, candidateauth.Middleware(container.CandidateTokens))

	// 8. Start Server with Graceful Shutdown
	go func() {
		logx.Infof("Server listening on port %s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			logx.Fatalf("Server error: %v", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c // Wait for signal
	logx.Info("Shutting down server...")

	if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
		logx.Errorf("Server forced to shutdown: %v", err)
	}

	stopWorkers()
	container.ProjectionWorker.Wait()

	logx.Info("Server exited")
}

// requestTimeout bounds every request's context
func requestTimeout(d time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if d <= 0 {
			return c.Next()
		}
		ctx, cancel := context.WithTimeout(c.UserContext(), d)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}
