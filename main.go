package main

import (
	"context"
	"dtrivia/config"
	pgconfig "dtrivia/config/postgres"
	_ "dtrivia/config/swagger"
	"dtrivia/middleware"
	"dtrivia/routes"
	"dtrivia/services/broadcast"
	"dtrivia/services/coordinator"
	"dtrivia/services/lock"
	"dtrivia/services/questionbank"
	"dtrivia/services/redis"
	socketio "dtrivia/services/socket_io"
	"dtrivia/services/users"
	dsync "dtrivia/sync"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	questionTimeout = 3 * time.Second
	shutdownTimeout = 10 * time.Second
)

// @title dtrivia API
// @version 1.0
// @description Gin-Gonic server for the multiplayer trivia game
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	logger, err := config.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Error building logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Server stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Setting up server...")
	if cfg.Prod {
		gin.SetMode(gin.ReleaseMode)
	}

	gormDB, err := pgconfig.ConnectGORM(cfg.Postgres, logger)
	if err != nil {
		return err
	}
	// Only migrate in development or during deployment
	if cfg.Postgres.Migrate {
		if err := pgconfig.MigrateDatabase(gormDB, logger); err != nil {
			// Continue execution even if migration fails
			logger.Warn("Database migration failed", zap.Error(err))
		}
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	redisClient, err := config.Connect_redis(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer redis.CloseRedis(redisClient)

	bank := questionbank.NewBank(gormDB, questionTimeout, logger)
	checkCatalog(ctx, bank, logger)

	sio := socketio.NewSocketServer()
	defer sio.Close()

	var fanout broadcast.Broadcaster = broadcast.NewSocketBroadcaster(sio.Sio_server)
	if cfg.RoomRelay {
		relay := broadcast.NewRelay(fanout, redisClient, logger)
		go func() {
			if err := relay.Run(ctx, nil); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("[RELAY] room relay stopped", zap.Error(err))
			}
		}()
		fanout = relay
	}

	coord := coordinator.New(
		redisClient,
		newLocker(cfg, redisClient),
		bank,
		users.NewDirectory(gormDB),
		fanout,
		coordinator.WithRecorder(dsync.NewSyncManager(gormDB, logger)),
		coordinator.WithLogger(logger),
		coordinator.WithNameTimeout(cfg.NameLookupTimeout),
	)

	verifier := middleware.NewVerifier(cfg.JWTSecret)

	r := gin.New()
	middleware.SetUpMiddleware(r, logger)
	routes.SetupRoutes(r, coord, verifier, logger)
	sio.Start(r, coord, verifier, logger, !cfg.Prod)

	return serve(ctx, cfg, r, logger)
}

// newLocker serializes transitions per joining code. The in-process mutex
// always runs first so local contenders never poll Redis.
func newLocker(cfg *config.Config, rc *redis.RedisClient) lock.Locker {
	local := lock.NewKeyedMutex()
	if !cfg.DistributedLocks {
		return local
	}
	return lock.Chain{local, rc.NewSessionLock(cfg.LockTTL)}
}

func checkCatalog(ctx context.Context, bank *questionbank.Bank, logger *zap.Logger) {
	count, err := bank.CountAvailable(ctx, nil)
	if err != nil {
		logger.Warn("[QUESTIONS] could not count the catalog", zap.Error(err))
		return
	}
	if count == 0 {
		logger.Warn("[QUESTIONS] the catalog is empty, games will end on their first question")
		return
	}
	logger.Info("[QUESTIONS] catalog ready", zap.Int64("questions", count))
}

func serve(ctx context.Context, cfg *config.Config, handler http.Handler, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server started", zap.String("port", cfg.Port), zap.Bool("tls", cfg.UseTLS))
		if cfg.UseTLS {
			errCh <- srv.ListenAndServeTLS(cfg.TLSCert, cfg.TLSKey)
		} else {
			errCh <- srv.ListenAndServe()
		}
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
