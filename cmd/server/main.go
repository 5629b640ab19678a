package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	config "github.com/maheshrc27/postpilot/configs"
	"github.com/maheshrc27/postpilot/internal/api/handlers"
	"github.com/maheshrc27/postpilot/internal/api/middleware"
	job "github.com/maheshrc27/postpilot/internal/jobs"
	"github.com/maheshrc27/postpilot/internal/queue"
	"github.com/maheshrc27/postpilot/internal/repository"
	"github.com/maheshrc27/postpilot/internal/service"
	"github.com/robfig/cron"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeDB(db)

	if err := db.Ping(); err != nil {
		log.Fatalf("Database is unreachable: %v", err)
	}

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	client := asynq.NewClient(redisConn)
	defer client.Close()

	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Minute,
		WriteTimeout: 10 * time.Minute,
		BodyLimit:    100 * 1024 * 1024, // 100 MB
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	titleBatchRepo := repository.NewTitleBatchRepository(db)
	publishRecordRepo := repository.NewPublishRecordRepository(db)

	authService := service.NewAuthService(*cfg, userRepo)
	userService := service.NewUserService(userRepo)
	r2Service := service.NewR2Service(*cfg)
	linkedinService := service.NewLinkedinService(*cfg, userRepo)
	mediaService := service.NewMediaService(linkedinService, *r2Service)
	postService := service.NewPostService(*cfg, postRepo, userRepo, publishRecordRepo, mediaService, linkedinService)
	settingsService := service.NewSettingsService(userRepo)
	generatorService := service.NewGeneratorService(*cfg)
	imageSearchService := service.NewImageSearchService(*cfg)
	titlesService := service.NewTitlesService(db, titleBatchRepo, generatorService)

	authMiddleware := middleware.NewAuthMiddleware(*cfg)

	auth := handlers.NewAuthHandler(*cfg, authService, linkedinService)
	app.Get("/login", auth.Login)
	app.Get("/login/callback", auth.LoginCallbackHandler)

	sweepJob := job.NewSweepJob(postRepo, userRepo, postService, mediaService, linkedinService)
	sweep := handlers.NewSweepHandler(*cfg, sweepJob)
	app.Get("/cron/sweep", sweep.RunSweep)

	api := app.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())

	api.Get("/auth/linkedin", auth.ConnectLinkedin)
	api.Get("/auth/linkedin/callback", auth.LinkedinCallbackHandler)

	user := handlers.NewUserHandler(userService)
	api.Get("/user/info", user.UserInfo)
	api.Post("/user/remove", user.RemoveUser)

	settings := handlers.NewSettingsHandler(settingsService)
	api.Get("/settings/info", settings.GetSettings)
	api.Post("/settings/update", settings.UpdateSettings)

	post := handlers.NewPostHandler(postService)
	api.Post("/posts/draft", post.SaveDraft)
	api.Post("/posts/schedule", post.Schedule)
	api.Post("/posts/:id/cancel", post.CancelSchedule)
	api.Post("/posts/:id/publish", post.PublishNow)
	api.Get("/posts/:id/history", post.PublishHistory)
	api.Get("/posts/:id", post.PostInfo)
	api.Get("/posts", post.ListPosts)
	api.Delete("/posts/:id", post.RemovePost)

	titles := handlers.NewTitlesHandler(titlesService, client)
	api.Post("/titles/generate", titles.Generate)
	api.Post("/titles/select", titles.SelectTitles)
	api.Post("/titles/generated", titles.MarkGenerated)
	api.Get("/titles/batch", titles.BatchInfo)
	api.Get("/titles/active", titles.HasActiveBatch)

	queueW := queue.NewQueue(postRepo, titlesService, generatorService, imageSearchService)

	c := cron.New()
	c.AddFunc("@every 00h01m00s", sweepJob.Run)
	c.Start()

	go func() {
		server := asynq.NewServer(redisConn, asynq.Config{
			Concurrency: 10,
		})

		mux := asynq.NewServeMux()
		mux.HandleFunc(queue.TaskTypeGenerateContent, queueW.HandleGenerateContentTask)

		log.Println("Starting the Asynq server...")
		if err := server.Run(mux); err != nil {
			log.Fatalf("Could not start Asynq server: %v", err)
		}
	}()

	go func() {
		if err := app.Listen(":3000"); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Println("Server is running on http://localhost:3000")

	gracefulShutdown(app, db)
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, db *sql.DB) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}

	closeDB(db)
	log.Println("Server shutdown complete.")
}
