package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dive25/pep/audit"
	"github.com/dive25/pep/config"
	"github.com/dive25/pep/controller"
	"github.com/dive25/pep/dao"
	"github.com/dive25/pep/db"
	"github.com/dive25/pep/keys"
	logger "github.com/dive25/pep/logging"
	"github.com/dive25/pep/middleware"
	"github.com/dive25/pep/pdp"
	"github.com/dive25/pep/revocation"
	"github.com/dive25/pep/router"
	"github.com/dive25/pep/service"
	"github.com/dive25/pep/token"
	"github.com/dive25/pep/util"
)

func main() {
	// Initialize configuration
	if err := config.InitConfig(); err != nil {
		log.Fatalf("Failed to initialize config: %v", err)
	}

	// Initialize logger
	logger.InitLogger("logging")
	defer logger.Sync()

	// Initialize Neo4j
	if err := db.InitNeo4j(); err != nil {
		logger.Fatal("Failed to initialize Neo4j", zap.Error(err))
	}
	defer db.CloseNeo4j()

	// Initialize Redis
	if err := db.InitRedis(); err != nil {
		logger.Fatal("Failed to initialize Redis", zap.Error(err))
	}
	defer db.CloseRedis()

	// Initialize EventBus
	eventBus := util.NewEventBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	eventBus.Start(ctx)

	// Initialize services and utilities
	validationUtil := util.NewValidationUtil()
	notificationService := util.NewNotificationService()
	auditRepository, err := audit.NewElasticsearchRepository(config.GetString("elasticsearch.url"))
	if err != nil {
		logger.Fatal("Failed to initialize audit repository", zap.Error(err))
	}
	auditService := audit.NewService(auditRepository)

	// Audit emission and operator notifications ride the event bus so the
	// enforcement hot path never waits on either sink.
	eventBus.Subscribe(util.EventDecisionRecorded, func(ctx context.Context, event util.Event) error {
		return auditService.RecordDecision(ctx, event.Payload.(audit.Event))
	})
	eventBus.Subscribe(util.EventAccessDenied, func(ctx context.Context, event util.Event) error {
		payload := event.Payload.(gin.H)
		return notificationService.NotifyAccessDenied(ctx,
			payload["subjectID"].(string), payload["resourceID"].(string), payload["reason"].(string))
	})
	eventBus.Subscribe(util.EventTokenRevoked, func(ctx context.Context, event util.Event) error {
		return notificationService.NotifyRevokedTokenAttempt(ctx, event.Payload.(string))
	})
	eventBus.Subscribe(util.EventKeyDiscoveryFailed, func(ctx context.Context, event util.Event) error {
		return notificationService.NotifyKeyDiscoveryExhausted(ctx, event.Payload.(string))
	})

	// Token verification chain
	keyResolver := keys.NewResolver(
		config.TrustRealms(),
		config.GetString("auth.defaultRealm"),
		config.GetDuration("auth.keyCacheTTL"),
	)
	verifier := token.NewVerifier(
		keyResolver,
		config.AllowedIssuers(),
		config.GetStringSlice("auth.audiences"),
	)
	revocationStore := revocation.NewStore(db.RedisClient)

	// Decision chain
	pdpClient := pdp.NewClient(
		config.GetString("pdp.endpoint"),
		config.GetDuration("pdp.timeout"),
	)
	decisionCache := pdp.NewDecisionCache(config.GetDuration("pdp.decisionCacheTTL"))

	// Resource attribute provider
	resourceDAO := dao.NewResourceDAO(db.Neo4jDriver)
	resourceService := service.NewResourceService(resourceDAO, validationUtil)

	// Enforcement
	enforcer := middleware.NewEnforcer(resourceService, decisionCache, pdpClient, validationUtil, eventBus)
	authn := middleware.BearerAuth(verifier, revocationStore, eventBus)

	// Controllers and router
	controllers := controller.InitializeControllers(resourceService, auditService)

	gin.SetMode(gin.ReleaseMode)
	engine := router.SetupRouter(controllers, authn, enforcer, 100, time.Minute) // 100 requests per minute

	// Set up the server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", config.GetString("server.port")),
		Handler: engine,
	}

	// Start the server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("port", config.GetString("server.port")))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
}
