package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/webpulse/webpulse-api/internal/infra/database"
	"github.com/webpulse/webpulse-api/internal/infra/generator"
	"github.com/webpulse/webpulse-api/internal/infra/http/handlers"
	"github.com/webpulse/webpulse-api/internal/infra/http/middleware"
	"github.com/webpulse/webpulse-api/internal/infra/mail"
	"github.com/webpulse/webpulse-api/internal/infra/queue"
	"github.com/webpulse/webpulse-api/internal/infra/scheduler"
	"github.com/webpulse/webpulse-api/internal/usecase"
)

func main() {
	godotenv.Load()

	db, err := database.NewDBConnection(os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := database.EnsureSchema(context.Background(), db); err != nil {
		log.Fatal(err)
	}

	rabbitMQ, err := queue.NewRabbitMQ(
		envOr("RABBITMQ_USER", "guest"),
		envOr("RABBITMQ_PASS", "guest"),
		envOr("RABBITMQ_HOST", "localhost"),
		envOr("RABBITMQ_PORT", "5672"),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer rabbitMQ.Conn.Close()
	defer rabbitMQ.Ch.Close()

	// 1. Repositories
	leadRepo := database.NewLeadRepository(db)
	siteRepo := database.NewSiteRepository(db)
	paymentRepo := database.NewPaymentRepository(db)
	taskRepo := database.NewTaskRepository(db)

	// 2. Adapters
	producer := queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)
	mailSender := mail.NewEmailSender(
		os.Getenv("SMTP_HOST"), 587, os.Getenv("SMTP_USER"), os.Getenv("SMTP_PASS"),
		os.Getenv("SMTP_FROM"),
	)
	siteGen := generator.NewService(envOr("SITE_TEMPLATES_DIR", "site_templates"))
	previews, err := generator.NewPreviewStore(envOr("PREVIEW_DIR", "previews"))
	if err != nil {
		log.Fatal(err)
	}

	// 3. Notification worker (consumes the queue and sends email)
	notifyWorker := queue.NewWorker(rabbitMQ.Ch, mailSender)
	go notifyWorker.Start(queue.QueueName)

	// 4. Engine + scheduler
	engine := usecase.NewWorkflowEngine(
		leadRepo, siteRepo, paymentRepo, producer,
		scheduler.NewDBScheduler(taskRepo),
		usecase.SystemClock{}, usecase.SystemDice{},
		envOr("SITE_BASE_URL", "https://sites.webpulse.ai"),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	completionWorker := scheduler.NewWorker(taskRepo, engine, usecase.SystemClock{})
	go completionWorker.Start(ctx)

	generateSiteUC := usecase.NewGenerateSiteUseCase(
		leadRepo, siteRepo, siteGen, previews, producer, usecase.SystemClock{},
	)

	// 5. Handlers
	workflowHandler := handlers.NewWorkflowHandler(engine, siteRepo)
	leadHandler := handlers.NewLeadHandler(leadRepo)
	siteHandler := handlers.NewSiteHandler(generateSiteUC, siteRepo, siteGen)
	paymentHandler := handlers.NewPaymentHandler(paymentRepo)
	reminderHandler := handlers.NewReminderHandler(leadRepo, producer)
	healthHandler := handlers.NewHealthHandler(db, rabbitMQ.Conn)

	// 6. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:5173", "*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	}))

	r.Post("/api/workflow/approve-lead/{id}", workflowHandler.HandleApproveLead)
	r.Post("/api/workflow/process-deposit/{leadId}", workflowHandler.HandleProcessDeposit)
	r.Get("/api/workflow/status/{leadId}", workflowHandler.HandleGetStatus)
	r.Post("/api/workflow/deliver/{leadId}", workflowHandler.HandleDeliver)

	r.Post("/api/leads", leadHandler.HandleCreate)
	r.Get("/api/leads", leadHandler.HandleList)
	r.Get("/api/leads/{id}", leadHandler.HandleGet)
	r.Put("/api/leads/{id}", leadHandler.HandleUpdate)

	r.Post("/api/sites/generate", siteHandler.HandleGenerate)
	r.Get("/api/sites/{leadId}", siteHandler.HandleListByLead)
	r.Get("/api/templates", siteHandler.HandleTemplates)

	r.Post("/api/payments", paymentHandler.HandleCreate)
	r.Get("/api/payments", paymentHandler.HandleList)

	r.Post("/api/reminders/send", reminderHandler.HandleSend)

	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	// Rendered previews are plain files on disk.
	previewServer := http.StripPrefix("/preview/", http.FileServer(http.Dir(previews.Dir)))
	r.Get("/preview/*", previewServer.ServeHTTP)

	port := ":" + envOr("PORT", "8080")
	log.Printf("🔥 WebPulse API running on %s", port)
	http.ListenAndServe(port, r)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
