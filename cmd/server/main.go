/*
 * Copyright (c) 2025, WSO2 LLC. (https://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wso2/pharma-ledger-api/internal/system/config"
	"github.com/wso2/pharma-ledger-api/internal/system/constants"
	"github.com/wso2/pharma-ledger-api/internal/system/database"
	"github.com/wso2/pharma-ledger-api/internal/system/database/provider"
	"github.com/wso2/pharma-ledger-api/internal/system/log"
	"github.com/wso2/pharma-ledger-api/internal/system/metrics"
	"github.com/wso2/pharma-ledger-api/internal/system/middleware"
)

// Version information (set by build script)
var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	// Set Gin to release mode by default (can be overridden by GIN_MODE env var)
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger := log.GetLogger()
	logger.Info("Starting Pharma Ledger API Server...",
		log.String("version", version),
		log.String("build_date", buildDate))

	// Priority: CONFIG_PATH env var > repository/conf/deployment.yaml > cmd/server/repository/conf/deployment.yaml
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatal("Failed to load configuration", log.Error(err))
	}

	if err := log.Configure(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output); err != nil {
		logger.Fatal("Failed to configure logging", log.Error(err))
	}
	logger = log.GetLogger()
	logger.Info("Configuration loaded successfully",
		log.String("config_path", configPath),
		log.String("log_level", cfg.Logging.Level),
		log.String("database_type", cfg.Database.Ledger.Type))

	db, err := database.Initialize(&cfg.Database.Ledger)
	if err != nil {
		logger.Fatal("Failed to initialize database", log.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.HealthCheck(ctx); err != nil {
		logger.Fatal("Database health check failed", log.Error(err))
	}

	provider.InitDBProvider(db)
	dbClient, err := provider.GetDBProvider().GetLedgerDBClient()
	if err != nil {
		logger.Fatal("Failed to get ledger database client", log.Error(err))
	}

	m := metrics.New()
	router := newRouter(cfg, db, m)

	api := router.Group(constants.APIBasePath)
	if cfg.Security.BasicAuth.Enabled {
		api.Use(middleware.BasicAuthMiddleware(cfg.Security.BasicAuth.Accounts()))
	}
	if err := registerServices(ctx, api, dbClient, cfg, m); err != nil {
		logger.Fatal("Failed to register services", log.Error(err))
	}

	server := &http.Server{
		Addr:           cfg.Server.GetServerAddress(),
		Handler:        router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	go func() {
		logger.Info("Starting HTTP server...",
			log.String("hostname", cfg.Server.Hostname),
			log.Int("port", cfg.Server.Port),
			log.String("addr", server.Addr))

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", log.Error(err))
		}
	}()

	logger.Info("Server is running", log.String("address", server.Addr))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", log.Error(err))
	}

	unregisterServices(shutdownCtx)

	if err := provider.GetDBProviderCloser().Close(); err != nil {
		logger.Error("Failed to close database provider", log.Error(err))
	}

	logger.Info("Server exited gracefully")
}

// newRouter builds the gin engine with the global middleware chain and operational endpoints.
func newRouter(cfg *config.Config, db *database.DB, m *metrics.Metrics) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CorrelationIDMiddleware())
	router.Use(middleware.RequestLogger())
	if cfg.CORS.Enabled {
		router.Use(middleware.CORSMiddleware(middleware.CORSOptions{
			AllowedOrigins:   cfg.CORS.AllowedOrigins,
			AllowedMethods:   cfg.CORS.AllowedMethods,
			AllowedHeaders:   cfg.CORS.AllowedHeaders,
			AllowCredentials: cfg.CORS.AllowCredentials,
			MaxAge:           cfg.CORS.MaxAge,
		}))
	}
	router.Use(middleware.CallerMiddleware())

	router.GET("/health", func(c *gin.Context) {
		if err := db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	if cfg.Metrics.Enabled {
		router.GET(cfg.Metrics.Path, gin.WrapH(m.Handler()))
	}

	return router
}
