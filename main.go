package main

import (
	"database/sql"
	"log"
	"os"
	"strings"
	"time"

	"homefolio-api/handlers"
	"homefolio-api/initializers"
	"homefolio-api/middleware"
	"homefolio-api/pkg/notify"
	"homefolio-api/repository"
	"homefolio-api/state"
	"homefolio-api/websocket"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	// Local development reads .env; production supplies real env vars.
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if len(jwtSecret) < 32 {
		log.Fatal("JWT_SECRET must be set and at least 32 characters")
	}

	var db *sql.DB
	var err error
	for i := 0; i < 10; i++ {
		db, err = sql.Open("postgres", dbURL)
		if err == nil {
			err = db.Ping()
			if err == nil {
				break
			}
		}
		log.Printf("DB connection failed: %v, retrying in 2s...", err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		log.Fatal("Could not connect to database:", err)
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		log.Fatal("Migration driver error:", err)
	}
	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		log.Fatal("Migration init error:", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		log.Fatal("Migration failed:", err)
	}

	if err := initializers.InitMinio(); err != nil {
		log.Fatal("Failed to initialize Minio:", err)
	}

	usersRepo := repository.NewUsersRepository(db)
	savedRepo := repository.NewSavedPropertiesRepository(db)
	foldersRepo := repository.NewFoldersRepository(db)
	searchesRepo := repository.NewSearchesRepository(db)
	profilesRepo := repository.NewProfilesRepository(db)
	attachmentsRepo := repository.NewAttachmentsRepository(db)
	notificationsRepo := repository.NewNotificationsRepository(db)

	// Per-user view state, created on first touch and dropped at sign-out.
	sessions := state.NewManager()

	if os.Getenv("GIN_MODE") == "release" || strings.ToLower(os.Getenv("APP_ENV")) == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(gin.Recovery())

	// Configure trusted proxies for correct client IP handling in production
	trustedProxies := os.Getenv("TRUSTED_PROXIES")
	if trustedProxies != "" {
		parts := strings.Split(trustedProxies, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		if err := r.SetTrustedProxies(parts); err != nil {
			log.Fatalf("Invalid TRUSTED_PROXIES: %v", err)
		}
	} else {
		// Default to loopback only; override via TRUSTED_PROXIES in production
		_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})
	}

	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.RateLimitMiddleware())

	hub := websocket.NewHub()
	notifier := &notify.WSNotifier{Hub: hub}

	authHandler := handlers.NewAuthHandler(usersRepo, foldersRepo, sessions, jwtSecret)
	savedHandler := handlers.NewSavedHandler(savedRepo, foldersRepo, profilesRepo, searchesRepo, sessions).WithNotifier(notifier)
	notesHandler := handlers.NewNotesHandler(savedRepo, savedHandler, sessions).WithNotifier(notifier)
	foldersHandler := handlers.NewFoldersHandler(foldersRepo, sessions)
	searchesHandler := handlers.NewSearchesHandler(searchesRepo, notificationsRepo, sessions).WithNotifier(notifier)
	profilesHandler := handlers.NewProfilesHandler(profilesRepo, sessions)
	attachmentsHandler := handlers.NewAttachmentsHandler(attachmentsRepo, savedRepo)
	notificationsHandler := handlers.NewNotificationsHandler(notificationsRepo)

	// Public endpoints
	r.GET("/health", handlers.HealthCheck)

	// Public endpoints with stricter auth rate limit
	authPublic := r.Group("/", middleware.RateLimitAuthMiddleware())
	authPublic.POST("/register", authHandler.Register)
	authPublic.POST("/login", authHandler.Login)

	auth := r.Group("/", handlers.AuthMiddleware(jwtSecret))
	{
		auth.GET("/ws", websocket.ServeWS(hub))
		auth.POST("/logout", authHandler.Logout)

		// saved properties: collection view, counts, lifecycle
		auth.GET("/saved", savedHandler.List)
		auth.GET("/saved/counts", savedHandler.Counts)
		auth.POST("/saved", savedHandler.Save)
		auth.GET("/saved/:id", savedHandler.Get)
		auth.PATCH("/saved/:id/delete", savedHandler.Unsave)
		auth.PATCH("/saved/:id/restore", savedHandler.Restore)
		auth.PATCH("/saved/:id/folder", savedHandler.MoveToFolder)

		// per-property notes
		auth.GET("/saved/:id/notes", notesHandler.List)
		auth.POST("/saved/:id/notes", notesHandler.Upsert)
		auth.DELETE("/saved/:id/notes/:noteId", notesHandler.Delete)
		auth.PATCH("/saved/:id/notes/:noteId/pin", notesHandler.TogglePin)
		auth.PATCH("/saved/:id/notes/:noteId/archive", notesHandler.ToggleArchive)

		// folders
		auth.POST("/folders", foldersHandler.Create)
		auth.GET("/folders", foldersHandler.List)
		auth.GET("/folders/:id", foldersHandler.Get)
		auth.PATCH("/folders/:id", foldersHandler.Update)
		auth.DELETE("/folders/:id", foldersHandler.Delete)

		// saved searches
		auth.POST("/searches", searchesHandler.Create)
		auth.GET("/searches", searchesHandler.List)
		auth.PATCH("/searches/:id", searchesHandler.Update)
		auth.PATCH("/searches/:id/delete", searchesHandler.Delete)
		auth.PATCH("/searches/:id/restore", searchesHandler.Restore)

		// saved roommate profiles
		auth.POST("/profiles", profilesHandler.Save)
		auth.GET("/profiles", profilesHandler.List)
		auth.DELETE("/profiles/:id", profilesHandler.Unsave)

		// property photos
		auth.POST("/upload", attachmentsHandler.UploadPhoto)
		auth.GET("/files/:id", attachmentsHandler.GetFile)

		// notifications
		auth.GET("/notifications/unread", notificationsHandler.ListUnread)
		auth.POST("/notifications/mark-read", notificationsHandler.MarkRead)
	}

	r.Run(":8080")
}
