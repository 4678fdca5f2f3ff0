package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/address-normalizer/app/bootstrap"
	"github.com/address-normalizer/app/config"
	"github.com/address-normalizer/app/controllers"
	"github.com/address-normalizer/routes"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	bootstrap.LoadInfra()
	if err := config.Load(viper.GetString("app.parser_config")); err != nil {
		log.Fatal("Cannot load parser config:", err)
	}

	// 2. Khởi tạo logger
	env := viper.GetString("app.env")
	logger, err := bootstrap.InitLogger(env)
	if err != nil {
		log.Fatal("Cannot initialize logger:", err)
	}
	defer logger.Sync()

	logger.Info("Starting Address Normalizer Service",
		zap.String("store", config.C.Store.Driver),
		zap.String("cache", config.C.Cache.Driver),
		zap.String("data_version", config.C.DataVersion),
		zap.Bool("use_ai", config.C.UseAI))

	// 3. Store, cache, parser, services
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	stack, err := bootstrap.Build(ctx, config.C, logger)
	cancel()
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}
	defer func() {
		if err := stack.Close(); err != nil {
			logger.Error("Error closing resources", zap.Error(err))
		}
	}()

	// 4. Controllers
	addressController := controllers.NewAddressController(stack.Address, config.C.DataVersion, logger)
	adminController := controllers.NewAdminController(stack.Admin, logger)

	// 5. Gin router
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	routes.SetupAllRoutes(router, addressController, adminController, logger)

	// 6. Khởi động server
	port := viper.GetString("app.port")
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		logger.Info("Address Normalizer Service starting", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
}
