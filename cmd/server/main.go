package main

import (
	"atlas/internal/api"
	"atlas/internal/config"
	"atlas/internal/entity"
	"atlas/internal/model"
	"atlas/internal/storage"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.ParseConfig()
	if err != nil {
		logrus.WithError(err).Error("Failed to parse config")
		return
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)

	repo, err := model.InitRepository(&cfg)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise repository")
		return
	}

	if err := model.SeedDefaults(context.Background(), repo, cfg); err != nil {
		logrus.WithError(err).Warn("failed to seed defaults")
	}

	store, err := storage.NewStorage(cfg)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise storage")
		return
	}

	httpHandler, err := api.NewHTTPHandler(cfg, repo, store)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise http handler")
		return
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(LoggingMiddleware())
	r.Use(CORSMiddleware())
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	apiGroup := r.Group("/api")

	authGroup := apiGroup.Group("/auth")
	authGroup.POST("/login", httpHandler.Login)
	authGroup.POST("/logout", httpHandler.Logout)
	authGroup.GET("/me", httpHandler.RequireAuth(), httpHandler.Me)
	authGroup.POST("/change-password", httpHandler.RequireAuth(), httpHandler.ChangePassword)

	protected := apiGroup.Group("")
	protected.Use(httpHandler.RequireAuth())

	reports := protected.Group("/reports")
	reports.GET("", httpHandler.RequirePermissions(entity.PermViewReports), httpHandler.ListReports)
	reports.GET("/summary", httpHandler.RequirePermissions(entity.PermViewAnalytics), httpHandler.ReportSummary)
	reports.POST("", httpHandler.RequirePermissions(entity.PermManageReports), httpHandler.CreateReport)
	reports.PATCH("/:id", httpHandler.RequirePermissions(entity.PermManageReports), httpHandler.UpdateReport)
	reports.DELETE("/:id", httpHandler.RequirePermissions(entity.PermManageReports), httpHandler.DeleteReport)
	reports.POST("/export", httpHandler.RequirePermissions(entity.PermExportReports), httpHandler.ExportReports)

	branches := protected.Group("/branches")
	branches.GET("", httpHandler.ListBranches)
	branchAdmin := branches.Group("")
	branchAdmin.Use(httpHandler.RequirePermissions(entity.PermManageBranches))
	branchAdmin.POST("", httpHandler.CreateBranch)
	branchAdmin.PATCH("/:id", httpHandler.UpdateBranch)
	branchAdmin.DELETE("/:id", httpHandler.DeleteBranch)

	agents := protected.Group("/agents")
	agents.GET("", httpHandler.ListAgents)
	agentAdmin := agents.Group("")
	agentAdmin.Use(httpHandler.RequirePermissions(entity.PermManageAgents))
	agentAdmin.POST("", httpHandler.CreateAgent)
	agentAdmin.PATCH("/:id", httpHandler.UpdateAgent)
	agentAdmin.DELETE("/:id", httpHandler.DeleteAgent)

	countries := protected.Group("/countries")
	countries.GET("", httpHandler.ListCountries)
	countryAdmin := countries.Group("")
	countryAdmin.Use(httpHandler.RequirePermissions(entity.PermManageCountries))
	countryAdmin.POST("", httpHandler.CreateCountry)
	countryAdmin.PATCH("/:id", httpHandler.UpdateCountry)
	countryAdmin.DELETE("/:id", httpHandler.DeleteCountry)

	platforms := protected.Group("/platforms")
	platforms.GET("", httpHandler.ListPlatforms)
	platformAdmin := platforms.Group("")
	platformAdmin.Use(httpHandler.RequirePermissions(entity.PermManagePlatforms))
	platformAdmin.POST("", httpHandler.CreatePlatform)
	platformAdmin.PATCH("/:id", httpHandler.UpdatePlatform)
	platformAdmin.DELETE("/:id", httpHandler.DeletePlatform)

	userAdmin := protected.Group("/users")
	userAdmin.Use(httpHandler.RequirePermissions(entity.PermManageUsers))
	userAdmin.GET("", httpHandler.ListUsers)
	userAdmin.POST("", httpHandler.CreateUser)
	userAdmin.PATCH("/:id", httpHandler.UpdateUser)
	userAdmin.DELETE("/:id", httpHandler.DeleteUser)

	audit := protected.Group("/audit-logs")
	audit.Use(httpHandler.RequirePermissions(entity.PermViewAuditLog))
	audit.GET("", httpHandler.ListAuditEntries)

	if localProvider, ok := store.(storage.LocalBaseDirProvider); ok {
		publicPrefix := strings.TrimSpace(cfg.StoragePublicBaseURL)
		if publicPrefix == "" {
			publicPrefix = "/files"
		}
		if !strings.HasPrefix(publicPrefix, "http://") && !strings.HasPrefix(publicPrefix, "https://") {
			if !strings.HasPrefix(publicPrefix, "/") {
				publicPrefix = "/" + publicPrefix
			}
			r.Static(publicPrefix, localProvider.LocalBaseDir())
		}
	}

	serverHost := fmt.Sprintf("0.0.0.0:%s", cfg.HTTPPort)
	logger.WithField("host", serverHost).Info("server starting")
	httpServer := &http.Server{
		Addr:         serverHost,
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  300 * time.Second,
	}
	err = httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		logger.WithError(err).Error("server failed to start")
	}
}

// CORSMiddleware handles cross-origin requests and preflight.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
		c.Header("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// LoggingMiddleware records one structured log line per request.
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)
		logrus.WithFields(logrus.Fields{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"duration":  duration.String(),
			"size":      c.Writer.Size(),
			"client_ip": c.ClientIP(),
		}).Info("http_request")
	}
}
