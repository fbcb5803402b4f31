package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"taskmaster/app/config"
	"taskmaster/app/controllers"
	"taskmaster/app/middleware"
	"taskmaster/app/routes"
	"taskmaster/app/services"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

func main() {
	conf, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := config.NewLogger(conf)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize the configured task store
	ctx := context.Background()
	taskStore, closeStore, err := openStore(ctx, conf, logger)
	if err != nil {
		logger.Fatalw("Failed to initialize task store", "store", conf.TaskStore, "error", err)
	}

	// Initialize the controller layer
	taskController := controllers.NewTaskController(taskStore, logger, conf.Location(), conf.UpcomingWindowDays)

	// Setup HTTP server
	router := mux.NewRouter()
	router.Use(middleware.Recovery(logger), middleware.RequestLogger(logger))
	routes.RegisterRoutes(router, taskController)

	srv := &http.Server{
		Addr:              conf.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infow("Server is running", "addr", srv.Addr, "store", conf.TaskStore)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalw("Server failed", "error", err)
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		ctx,
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"http-server": func(ctx context.Context) error {
				logger.Info("Shutting down HTTP server")
				if err := srv.Shutdown(ctx); err != nil {
					return err
				}
				return closeStore(ctx)
			},
		},
	)

	exitCode := <-wait
	logger.Infow("Application exited", "code", exitCode)
	logger.Sync()
	os.Exit(exitCode)
}

// openStore connects the backend named by TASK_STORE and prepares its schema.
func openStore(ctx context.Context, conf config.Config, logger *zap.SugaredLogger) (services.TaskStore, func(context.Context) error, error) {
	switch conf.TaskStore {
	case config.StoreNeo4j:
		driver, err := config.InitNeo4j(ctx, conf)
		if err != nil {
			return nil, nil, err
		}
		store := services.NewNeo4jStore(driver)
		if err := store.EnsureSchema(ctx); err != nil {
			driver.Close(ctx)
			return nil, nil, err
		}
		logger.Infow("Connected to neo4j", "uri", conf.Neo4jURI)
		return store, driver.Close, nil

	default:
		db, err := config.InitSQLite(conf, logger)
		if err != nil {
			return nil, nil, err
		}
		store := services.NewSQLiteStore(db)
		if err := store.Migrate(ctx); err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, err
		}
		return store, func(context.Context) error { return sqlDB.Close() }, nil
	}
}
