package app

import (
	"fmt"
	"log"

	"github.com/yarmel/photoshare/api"
	"github.com/yarmel/photoshare/config"
	"github.com/yarmel/photoshare/database"
	"github.com/yarmel/photoshare/router"
	"github.com/yarmel/photoshare/services"
	"github.com/yarmel/photoshare/services/cron"
	"github.com/yarmel/photoshare/services/storage"
	"github.com/yarmel/photoshare/utils/auth"
	"github.com/yarmel/photoshare/utils/cache"
)

// SetupAndRunServer wires the whole app: config, database, redis, media
// store, services, cron and routes. The environment is read exactly once,
// here, into an immutable config.
func SetupAndRunServer() error {
	if err := config.LoadENV(); err != nil {
		log.Println("No .env file loaded:", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	store, err := database.StartGORM(cfg)
	if err != nil {
		log.Println("Check whether Postgres is running or not")
		return err
	}

	if err := store.Init(); err != nil {
		log.Println("Failed to initialize database tables")
		return err
	}

	// Redis is optional: brute force protection and per-route rate limits
	// degrade to open when it is down
	redisCache, err := cache.NewRedisCache(cfg.RedisURL)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v. Rate limiting and brute force protection disabled.", err)
		redisCache = nil
	}

	media, err := storage.NewSpacesClient(cfg.Media)
	if err != nil {
		return fmt.Errorf("media store init: %w", err)
	}

	codec := auth.NewTokenCodec(cfg.JWT)
	db := store.GetDB()

	authService := services.NewAuthService(db, codec)
	usersService := services.NewUsersService(db, cfg.AllowedRoles)
	imageService := services.NewImageService(db, media)
	commentService := services.NewCommentService(db)

	cronManager := cron.NewCronManager(db, authService)
	if err := cronManager.Start(); err != nil {
		log.Println("Warning: Failed to start cron jobs:", err)
	}

	defer func() {
		cronManager.Stop()
		if redisCache != nil {
			redisCache.Close()
		}
		store.Close()
	}()

	server := api.NewAPIServer(fmt.Sprintf(":%d", cfg.Port))
	app := server.GetEngine()

	router.SetupRoutes(app, router.Deps{
		Config:   cfg,
		Store:    store,
		Cache:    redisCache,
		Auth:     authService,
		Users:    usersService,
		Images:   imageService,
		Comments: commentService,
	})

	return server.Run()
}
