package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/avdmitry-dev/go-task-api/internal/config"
	v1 "github.com/avdmitry-dev/go-task-api/internal/delivery/http/v1"
	"github.com/avdmitry-dev/go-task-api/internal/repository"
	"github.com/avdmitry-dev/go-task-api/internal/services"
)

func MustListenAndServeHTTP() {
	cfg := config.Global()
	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	httpCfg := cfg.HTTP

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(v1.RequestLogger(globalLogger))
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPatch,
			http.MethodDelete,
		},
		AllowHeaders:     []string{"Content-Type", "Accept", "Origin"},
		AllowCredentials: false,
	}))
	v1.RegisterRoutes(router, newHandler())

	server := &http.Server{
		Addr:    net.JoinHostPort(httpCfg.Host, httpCfg.Port),
		Handler: router,
	}

	go func() {
		globalLogger.Info().
			Str("host", httpCfg.Host).
			Str("port", httpCfg.Port).
			Msg("setting up http server")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			globalLogger.Error().
				Err(err).
				Msg("failed to listen and serve http")
			panic(err)
		}
	}()

	// Wait for the interrupt signal to gracefully
	// shut down the server with a timeout.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	globalLogger.Info().
		Msg("shutting down http server")

	ctx, cancel := context.WithTimeout(context.Background(), httpCfg.ShutdownTimeout)
	defer cancel()

	err := server.Shutdown(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to shutdown http server")
		panic(err)
	}
	globalLogger.Info().Msg("shut down http server")
}

// newHandler wires repositories into services and services into the
// HTTP handler. Every collaborator is passed at construction.
func newHandler() v1.Handler {
	taskRepository := repository.NewTaskRepository(globalLogger, globalPostgresPool)
	userRepository := repository.NewUserRepository(globalLogger, globalPostgresPool)

	taskService := services.NewTaskService(globalLogger, taskRepository, userRepository)
	userService := services.NewUserService(globalLogger, userRepository)

	return v1.New(globalLogger, taskService, userService)
}
