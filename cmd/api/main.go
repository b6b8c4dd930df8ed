package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/sheba-pos/outlet-gateway/internal/application/service"
	"github.com/sheba-pos/outlet-gateway/internal/config"
	infraUpstream "github.com/sheba-pos/outlet-gateway/internal/infrastructure/upstream"
	"github.com/sheba-pos/outlet-gateway/internal/presentation/http/dto/request"
	"github.com/sheba-pos/outlet-gateway/internal/presentation/http/handler"
	"github.com/sheba-pos/outlet-gateway/internal/presentation/http/routes"
	"github.com/sheba-pos/outlet-gateway/pkg/logger"
	"github.com/sheba-pos/outlet-gateway/pkg/notify"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	appLog := logger.New(cfg.App.Debug)

	// Install the voucher form validation rules
	if err := request.RegisterValidations(); err != nil {
		log.Fatalf("Failed to register validations: %v", err)
	}

	// Initialize the head-office API client
	headOffice := infraUpstream.NewClient(&cfg.Upstream, appLog)

	// Notification sink for operator feedback
	notifier := notify.NewLogNotifier(appLog)

	// Initialize services
	voucherService := service.NewVoucherService(headOffice, notifier, appLog)
	returnService := service.NewOfficeReturnService(headOffice, notifier, appLog, cfg.Session.TTL, cfg.Session.CleanupInterval)

	// Initialize handlers
	handlers := &routes.Handlers{
		Voucher:      handler.NewVoucherHandler(voucherService),
		OfficeReturn: handler.NewOfficeReturnHandler(returnService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		Cfg: cfg,
		Log: appLog,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	appLog.Infof("Starting %s server on port %s (env: %s)", cfg.App.Name, port, cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
