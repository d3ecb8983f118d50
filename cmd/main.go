package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"studio"
	"studio/internal/designer/handler/endpoints"
	"studio/internal/designer/models"
	"studio/internal/designer/repo"
	"studio/internal/designer/service"
	"studio/internal/designer/websocket"
	"studio/pkg"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/graceful"
	"github.com/gin-gonic/gin"
)

func main() {
	studio.InitConfig(".env")
	gin.SetMode(gin.ReleaseMode)

	if studio.GetConfig().Mode == "dev" {
		if err := studio.DB.AutoMigrate(
			&models.SharedObjectRecord{},
		); err != nil {
			studio.Logger.Fatal().Err(err).Msg("Failed to migrate database")
		}
		studio.Logger.Info().Msg("Database migrated successfully")
		gin.SetMode(gin.DebugMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	router, err := graceful.Default(graceful.WithAddr(studio.GetConfig().ApiPort))
	pkg.AssertNoError(err)
	defer stop()
	defer router.Close()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	registry := service.NewDocumentRegistry()
	syncer := service.NewSharedObjectSyncService(registry, studio.Logger)
	documents := service.NewDocumentService(registry, syncer, newSharedObjectStore(), studio.Logger)

	hub := websocket.NewHub(studio.Logger)
	syncer.SetListener(hub)
	go hub.Run(ctx)
	studio.Logger.Info().Msg("WebSocket hub started")

	initAPI(router, documents, syncer, hub)

	studio.Logger.Debug().Msgf("Starting designer API on port %s", studio.GetConfig().ApiPort)
	if err = router.RunWithContext(ctx); err != nil && !errors.Is(err, context.Canceled) {
		studio.Logger.Fatal().Msg(err.Error())
		panic(err)
	}
}

// newSharedObjectStore puts the redis cache in front of the database when redis is enabled
func newSharedObjectStore() models.SharedObjectsIO {
	db := repo.NewSharedObjectRepository(studio.DB)
	if studio.Redis == nil {
		return db
	}
	return repo.NewCachedSharedObjectRepository(db, studio.Redis, "", studio.GetConfig().SharedObjects.CacheTTL, studio.Logger)
}

func initAPI(router *graceful.Graceful, documents *service.DocumentService, syncer *service.SharedObjectSyncService, hub *websocket.Hub) {
	endpoints.DocumentHandler(router, documents, syncer)
	endpoints.SharedObjectHandler(router, documents)
	endpoints.WebSocketHandler(router, hub, documents)
}
