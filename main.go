package main

import (
	"log"

	"github.com/fanexp/vip-tickets/config"
	"github.com/fanexp/vip-tickets/internal/handler"
	"github.com/fanexp/vip-tickets/internal/middleware"
	"github.com/fanexp/vip-tickets/internal/repository"
	"github.com/fanexp/vip-tickets/internal/service"
	"github.com/fanexp/vip-tickets/pkg/database"
	"github.com/fanexp/vip-tickets/pkg/mailer"
	"github.com/fanexp/vip-tickets/pkg/pdf"
	"github.com/fanexp/vip-tickets/pkg/rabbitmq"
	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
)

func main() {
	cfg := config.Load()

	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("failed to create storage directories: %v", err)
	}

	db := database.NewPostgresDB(cfg.DSN())

	// RabbitMQ publisher: downstream consumers pick up registration,
	// consent and ticket events. Optional in development.
	var publisher *rabbitmq.Publisher
	if cfg.RabbitURL != "" {
		p, err := rabbitmq.NewPublisher(cfg.RabbitURL)
		if err != nil {
			log.Fatalf("failed to connect to RabbitMQ: %v", err)
		}
		defer p.Close()
		publisher = p
	} else {
		log.Println("RABBITMQ_URL not set, event publishing disabled")
	}

	mail := mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom, cfg.MailFromName)
	if mail == nil {
		log.Println("SMTP_HOST not set, outgoing mail disabled")
	}

	// Repositories
	fanRepo := repository.NewFanRepository(db)
	tourRepo := repository.NewTourRepository(db)
	selectionRepo := repository.NewSelectionRepository(db)
	consentRepo := repository.NewConsentRepository(db)

	// Services
	fanSvc := service.NewFanService(fanRepo, tourRepo, selectionRepo, mail, publisher, cfg.MaxToursPerFan)
	consentSvc := service.NewConsentService(consentRepo, fanRepo, mail, publisher)
	tourSvc := service.NewTourService(tourRepo, fanRepo, selectionRepo)
	ticketSvc := service.NewTicketService(fanRepo, tourRepo, selectionRepo, pdf.NewTicketRenderer(), mail, publisher, cfg.TicketDir)

	// Echo
	e := echo.New()
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Validator = handler.NewValidator()
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			log.Printf("%s %s %d", v.Method, v.URI, v.Status)
			return nil
		},
	}))
	e.Use(echoMw.Recover())

	e.GET("/", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"service": "vip-tickets", "docs": "/api"})
	})
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok", "service": "vip-tickets"})
	})

	api := e.Group("/api")

	fans := api.Group("/fans")
	fanHandler := handler.NewFanHandler(fanSvc)
	fanHandler.RegisterRoutes(fans)
	handler.NewConsentHandler(consentSvc, cfg.UploadDir).RegisterRoutes(fans)

	ticketHandler := handler.NewTicketHandler(ticketSvc)
	ticketHandler.RegisterFanRoutes(fans)
	ticketHandler.RegisterRoutes(api.Group("/tickets"))

	handler.NewTourHandler(tourSvc).RegisterRoutes(api.Group("/tours"))

	admin := api.Group("/admin", middleware.AdminAuth(cfg.AdminKey))
	handler.NewAdminHandler(tourSvc, ticketSvc).RegisterRoutes(admin)

	log.Printf("VIP Tickets service starting on :%s", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
