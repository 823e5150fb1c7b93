// cmd/scheduler/main.go
//
// Standalone scheduler daemon: runs campaign lifecycle ticks and the
// segmentation sync without serving HTTP. Use it when the API server runs
// with SCHEDULER_ENABLED=false.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	"github.com/mayfashion/marketing-backend/internal/config"
	"github.com/mayfashion/marketing-backend/internal/db"
	"github.com/mayfashion/marketing-backend/internal/provider"
	"github.com/mayfashion/marketing-backend/internal/repository"
	"github.com/mayfashion/marketing-backend/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, relying on OS environment variables")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

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

	var sendProvider provider.SendProvider = &provider.LogProvider{}
	if cfg.Provider.Kind == "amqp" {
		p, err := provider.NewAMQPProvider(cfg.Provider.AMQPURL, cfg.Provider.Queue)
		if err != nil {
			log.Fatal("failed to connect to AMQP:", err)
		}
		defer p.Close()
		sendProvider = p
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

	go runSegmentationLoop(ctx, segmentationService, cfg.Scheduler.SegmentationInterval)

	scheduler.Run(ctx)
}

func runSegmentationLoop(ctx context.Context, svc *service.SegmentationService, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	log.Printf("📅 Segmentation sync started, running every %s", interval)

	run := func() {
		if _, err := svc.Sync(); err != nil {
			log.Println("❌ Segmentation sync failed:", err)
		}
	}

	run()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Println("📅 Segmentation sync stopped")
			return
		case <-ticker.C:
			run()
		}
	}
}
