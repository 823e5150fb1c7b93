// cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	"github.com/mayfashion/marketing-backend/internal/config"
	"github.com/mayfashion/marketing-backend/internal/controller"
	"github.com/mayfashion/marketing-backend/internal/db"
	"github.com/mayfashion/marketing-backend/internal/metrics"
	"github.com/mayfashion/marketing-backend/internal/provider"
	"github.com/mayfashion/marketing-backend/internal/repository"
	"github.com/mayfashion/marketing-backend/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, relying on OS environment variables")
	}

	ctx := context.Background()
	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatal("failed to load config:", err)
	}

	conn, err := db.Connect(cfg.Database.DSN())
	if err != nil {
		log.Fatal("failed to connect to DB:", err)
	}
	defer conn.Close()

	campaignRepo := &repository.CampaignRepository{DB: conn}
	segmentationRepo := &repository.SegmentationRepository{DB: conn}
	transactionRepo := &repository.TransactionRepository{DB: conn}

	sendProvider, err := buildProvider(cfg)
	if err != nil {
		log.Fatal("failed to init send provider:", err)
	}

	audienceService := &service.AudienceService{
		SegmentationRepo: segmentationRepo,
		TransactionRepo:  transactionRepo,
	}
	dispatchService := &service.DispatchService{
		CampaignRepo: campaignRepo,
		Audience:     audienceService,
		Provider:     sendProvider,
		BaseURL:      cfg.Server.BaseURL,
		Limiter:      rate.NewLimiter(rate.Every(cfg.Dispatch.SendInterval), 1),
	}
	lifecycleService := &service.LifecycleService{
		CampaignRepo: campaignRepo,
		Dispatch:     dispatchService,
		Audience:     audienceService,
	}
	segmentationService := &service.SegmentationService{
		SegmentationRepo: segmentationRepo,
		TransactionRepo:  transactionRepo,
	}
	scheduler := &service.Scheduler{
		CampaignRepo: campaignRepo,
		Lifecycle:    lifecycleService,
		Interval:     cfg.Scheduler.TickInterval,
	}

	if cfg.Scheduler.Enabled {
		go scheduler.Run(ctx)
	} else {
		log.Println("⚠️ Embedded scheduler disabled; rely on /api/cron endpoints or cmd/scheduler")
	}

	campaignController := &controller.CampaignController{
		CampaignRepo: campaignRepo,
		Lifecycle:    lifecycleService,
	}
	audienceController := &controller.AudienceController{
		Audience:         audienceService,
		SegmentationRepo: segmentationRepo,
	}
	segmentationController := &controller.SegmentationController{
		Segmentation: segmentationService,
		Scheduler:    scheduler,
	}
	trackingController := &controller.TrackingController{
		CampaignRepo:       campaignRepo,
		DefaultRedirectURL: cfg.Dispatch.DefaultRedirectURL,
	}

	r := chi.NewRouter()

	// Campaign CRUD
	r.Post("/api/campaigns", campaignController.CreateCampaign)
	r.Get("/api/campaigns", campaignController.ListCampaigns)
	r.Get("/api/campaigns/status/{status}", campaignController.ListByStatus)
	r.Get("/api/campaigns/{id}", campaignController.GetCampaign)
	r.Patch("/api/campaigns/{id}", campaignController.UpdateCampaign)
	r.Delete("/api/campaigns/{id}", campaignController.DeleteCampaign)

	// Lifecycle transitions
	r.Patch("/api/campaigns/{id}/submit", campaignController.SubmitCampaign)
	r.Patch("/api/campaigns/{id}/approve", campaignController.ApproveCampaign)
	r.Patch("/api/campaigns/{id}/reject", campaignController.RejectCampaign)
	r.Patch("/api/campaigns/{id}/start", campaignController.StartCampaign)
	r.Patch("/api/campaigns/{id}/complete", campaignController.CompleteCampaign)
	r.Post("/api/campaigns/{id}/execute", campaignController.ExecuteCampaign)
	r.Post("/api/campaigns/{id}/resolve", campaignController.ResolveCampaignAudience)

	// Audience
	r.Post("/api/audience/resolve", audienceController.ResolveAudience)
	r.Post("/api/audience/preview", audienceController.PreviewAudience)
	r.Get("/api/audience/segments", audienceController.ListSegments)
	r.Get("/api/audience/stats", audienceController.SegmentationStats)

	// Segmentation sync + cron triggers
	r.Post("/api/segmentation/sync", segmentationController.TriggerSync)
	r.Get("/api/cron/campaigns", segmentationController.TriggerCampaignTick)
	r.Get("/api/cron/segmentation", segmentationController.TriggerSync)

	// Engagement tracking
	r.Get("/api/tracking/open/{campaignId}/{customerId}", trackingController.TrackOpen)
	r.Get("/api/tracking/click/{campaignId}/{customerId}", trackingController.TrackClick)
	r.Get("/api/tracking/stats/{campaignId}", trackingController.TrackingStats)

	r.Handle("/metrics", metrics.Handler())

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	log.Println("🚀 Server running on", addr)
	log.Fatal(http.ListenAndServe(addr, r))
}

func buildProvider(cfg *config.Config) (provider.SendProvider, error) {
	switch cfg.Provider.Kind {
	case "amqp":
		return provider.NewAMQPProvider(cfg.Provider.AMQPURL, cfg.Provider.Queue)
	default:
		log.Println("⚠️ Using log send provider; set PROVIDER_KIND=amqp for a real gateway")
		return &provider.LogProvider{}, nil
	}
}
