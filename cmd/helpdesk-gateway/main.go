package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"helpdesk-gateway/internal/adapter/gateway"
	adapterhandler "helpdesk-gateway/internal/adapter/handler"
	infracache "helpdesk-gateway/internal/infrastructure/cache"
	infratoken "helpdesk-gateway/internal/infrastructure/token"
	"helpdesk-gateway/internal/usecase"

	"helpdesk-gateway/config"
	appmiddleware "helpdesk-gateway/middleware"
	"helpdesk-gateway/utils/logger"
	"helpdesk-gateway/utils/otel"
	appvalidator "helpdesk-gateway/utils/validator"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Handle healthcheck subcommand (for Docker healthcheck in distroless image)
	if len(os.Args) > 1 && os.Args[1] == "healthcheck" {
		if err := runHealthcheck(); err != nil {
			fmt.Fprintf(os.Stderr, "Healthcheck failed: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// Load environment variables from .env file if it exists
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("could not load .env file", "error", err)
	}

	// Initialize OpenTelemetry
	otelCfg := otel.ConfigFromEnv()
	otelShutdown, err := otel.InitProvider(ctx, otelCfg)
	if err != nil {
		slog.Warn("failed to initialize OpenTelemetry, continuing without tracing", "error", err)
		otelCfg.Enabled = false
	}

	// Initialize structured logger
	logger.Init(otelCfg.Enabled)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.ErrorContext(ctx, "failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.InfoContext(ctx, "configuration loaded",
		"odoo_url", cfg.OdooURL,
		"port", cfg.Port,
		"verify_cache_ttl", cfg.VerifyCacheTTL)

	// Infrastructure
	odoo, err := gateway.NewOdooGateway(cfg.OdooURL, cfg.OdooDB, cfg.OdooUsername, cfg.OdooAPIKey, cfg.OdooTimeout, slog.Default())
	if err != nil {
		slog.ErrorContext(ctx, "failed to create ERP gateway", "error", err)
		os.Exit(1)
	}
	if err := odoo.Connect(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to authenticate against the ERP", "error", err)
		os.Exit(1)
	}

	claimsCodec := infratoken.NewClaimsCodec(cfg.TokenSecret)
	verifyCache := infracache.NewVerificationCache(cfg.VerifyCacheSize, cfg.VerifyCacheTTL)

	// Usecases
	authorizeUC := usecase.NewAuthorize(claimsCodec, verifyCache, odoo, slog.Default())
	createTicketUC := usecase.NewCreateTicket(odoo, odoo, cfg.NotifyTemplateID, slog.Default())
	getTicketUC := usecase.NewGetTicket(odoo)
	listTicketsUC := usecase.NewListTickets(odoo)
	myTicketsUC := usecase.NewMyTickets(odoo)
	updateTicketUC := usecase.NewUpdateTicket(odoo, odoo, slog.Default())
	deleteTicketUC := usecase.NewDeleteTicket(odoo)
	messagesUC := usecase.NewTicketMessages(odoo, odoo, odoo, slog.Default())
	attachUC := usecase.NewAttachFile(odoo, slog.Default())
	companiesUC := usecase.NewListCompanies(odoo)
	stagesUC := usecase.NewListStages(odoo)
	templatesUC := usecase.NewListTemplates(odoo)
	registerPartnerUC := usecase.NewRegisterPartner(odoo)
	updateEmailUC := usecase.NewUpdatePartnerEmail(odoo, slog.Default())

	// Handlers
	ticketHandler := adapterhandler.NewTicketHandler(createTicketUC, getTicketUC, listTicketsUC, myTicketsUC, updateTicketUC, deleteTicketUC)
	messageHandler := adapterhandler.NewMessageHandler(messagesUC, attachUC)
	catalogHandler := adapterhandler.NewCatalogHandler(companiesUC, stagesUC, templatesUC)
	partnerHandler := adapterhandler.NewPartnerHandler(registerPartnerUC, updateEmailUC)
	healthHandler := adapterhandler.NewHealthHandler()

	// Setup Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = appvalidator.New()

	// Security middleware
	e.Use(appmiddleware.SecurityHeaders())

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSAllowOrigins,
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.DELETE, echo.OPTIONS},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, "Authorization", "X-Request-ID"},
		MaxAge:       86400,
	}))

	e.Use(appmiddleware.RequestID())

	// OpenTelemetry tracing
	if otelCfg.Enabled {
		e.Use(otelecho.Middleware(otelCfg.ServiceName))
		e.Use(appmiddleware.OTelStatusMiddleware())
	}

	// Request logging
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			return c.Request().URL.Path == "/v1/health"
		},
		LogStatus:   true,
		LogURI:      true,
		LogError:    true,
		LogMethod:   true,
		LogLatency:  true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			rctx := c.Request().Context()
			if v.Error == nil {
				slog.InfoContext(rctx, "request completed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds())
			} else {
				slog.ErrorContext(rctx, "request failed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds(),
					"error", v.Error.Error())
			}
			return nil
		},
	}))

	e.Use(middleware.Recover())

	// Rate limiters per endpoint group
	readRL := appmiddleware.NewRateLimiter("read", 100.0/60.0, 10) // 100 req/min
	writeRL := appmiddleware.NewRateLimiter("write", 30.0/60.0, 5) // 30 req/min

	// Public routes
	e.GET("/v1/health", healthHandler.Handle)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Everything under /v1 requires a valid bearer credential
	api := e.Group("/v1", appmiddleware.BearerAuth(authorizeUC))

	api.POST("/tickets", ticketHandler.Create, writeRL.Middleware())
	api.GET("/tickets", ticketHandler.List, readRL.Middleware())
	api.GET("/tickets/mine", ticketHandler.Mine, readRL.Middleware())
	api.GET("/tickets/:id", ticketHandler.Get, readRL.Middleware())
	api.PUT("/tickets/:id", ticketHandler.Update, writeRL.Middleware())
	api.DELETE("/tickets/:id", ticketHandler.Delete, writeRL.Middleware())
	api.GET("/tickets/:id/messages", messageHandler.List, readRL.Middleware())
	api.POST("/tickets/:id/messages", messageHandler.Add, writeRL.Middleware())
	api.POST("/tickets/:id/attachments", messageHandler.Attach, writeRL.Middleware())
	api.GET("/tickets/by-company/:companyID", ticketHandler.ListByCompany, readRL.Middleware())
	api.GET("/tickets/by-user/:userID", ticketHandler.ListByUser, readRL.Middleware())
	api.GET("/companies", catalogHandler.Companies, readRL.Middleware())
	api.GET("/stages", catalogHandler.Stages, readRL.Middleware())
	api.GET("/mail-templates", catalogHandler.MailTemplates, readRL.Middleware())
	api.POST("/partners", partnerHandler.Register, writeRL.Middleware())
	api.PUT("/partners/email", partnerHandler.UpdateEmail, writeRL.Middleware())

	// Start server with errgroup for graceful shutdown
	address := fmt.Sprintf(":%s", cfg.Port)
	slog.InfoContext(ctx, "starting helpdesk-gateway server", "address", address)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := e.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		slog.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return otelShutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited properly")
}

// runHealthcheck performs a health check against the local server.
func runHealthcheck() error {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(fmt.Sprintf("http://127.0.0.1:%s/v1/health", port))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health endpoint returned status: %d", resp.StatusCode)
	}
	return nil
}
