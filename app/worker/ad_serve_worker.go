// Package worker runs the background audience resolution loop
package worker

import (
	"context"
	"log"
	"time"

	"github.com/amirphl/Susanoo/app/services"
	businessflow "github.com/amirphl/Susanoo/business_flow"
	"github.com/amirphl/Susanoo/models"
	"github.com/amirphl/Susanoo/repository"
	"github.com/amirphl/Susanoo/utils"
)

// AdServeWorker consumes advertisement creation events and drives the
// resolution flow. A periodic backstop scan picks up advertisements whose
// creation event was lost so every advertisement is eventually served.
type AdServeWorker struct {
	serveFlow    businessflow.AdServeFlow
	eventQueue   services.EventQueue
	adRepo       repository.AdvertisementRepository
	logger       *log.Logger
	pollTimeout  time.Duration
	scanInterval time.Duration
	scanLookback time.Duration
	scanGrace    time.Duration
	scanBatch    int
}

// Config tunes the worker loops
type Config struct {
	// PollTimeout bounds each blocking queue read
	PollTimeout time.Duration
	// ScanInterval is the period of the backstop scan
	ScanInterval time.Duration
	// ScanLookback bounds how far back the scan looks. Advertisements that
	// stay unserved longer than this (for example, ones with permanently
	// invalid criteria) stop being retried.
	ScanLookback time.Duration
	// ScanGrace keeps the scan from racing the queue on fresh advertisements
	ScanGrace time.Duration
	// ScanBatch caps advertisements handled per scan tick
	ScanBatch int
}

// NewAdServeWorker creates a new resolution worker
func NewAdServeWorker(
	serveFlow businessflow.AdServeFlow,
	eventQueue services.EventQueue,
	adRepo repository.AdvertisementRepository,
	logger *log.Logger,
	cfg Config,
) *AdServeWorker {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = 5 * time.Second
	}
	if cfg.ScanInterval <= 0 {
		cfg.ScanInterval = time.Minute
	}
	if cfg.ScanLookback <= 0 {
		cfg.ScanLookback = 24 * time.Hour
	}
	if cfg.ScanGrace <= 0 {
		cfg.ScanGrace = 30 * time.Second
	}
	if cfg.ScanBatch <= 0 {
		cfg.ScanBatch = 100
	}
	return &AdServeWorker{
		serveFlow:    serveFlow,
		eventQueue:   eventQueue,
		adRepo:       adRepo,
		logger:       logger,
		pollTimeout:  cfg.PollTimeout,
		scanInterval: cfg.ScanInterval,
		scanLookback: cfg.ScanLookback,
		scanGrace:    cfg.ScanGrace,
		scanBatch:    cfg.ScanBatch,
	}
}

// Start launches the consume and scan loops in background goroutines and
// returns a stop function.
func (w *AdServeWorker) Start(parent context.Context) func() {
	ctx, cancel := context.WithCancel(parent)

	go w.consumeLoop(ctx)
	go w.scanLoop(ctx)

	return cancel
}

func (w *AdServeWorker) consumeLoop(ctx context.Context) {
	w.logger.Printf("worker: creation event consumer started")
	for {
		select {
		case <-ctx.Done():
			w.logger.Printf("worker: creation event consumer stopped")
			return
		default:
		}

		event, err := w.eventQueue.ConsumeCreated(ctx, w.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			w.logger.Printf("worker: failed to consume creation event: %v", err)
			// Back off so a broken queue doesn't spin the loop
			select {
			case <-ctx.Done():
				return
			case <-time.After(w.pollTimeout):
			}
			continue
		}
		if event == nil {
			continue
		}

		w.serveOne(ctx, event.AdvertisementUUID, event.CorrelationID)
	}
}

func (w *AdServeWorker) scanLoop(ctx context.Context) {
	ticker := time.NewTicker(w.scanInterval)
	defer ticker.Stop()

	w.logger.Printf("worker: backstop scan started (interval %s, lookback %s)", w.scanInterval, w.scanLookback)

	for {
		select {
		case <-ctx.Done():
			w.logger.Printf("worker: backstop scan stopped")
			return
		case <-ticker.C:
			w.scanOnce(ctx)
		}
	}
}

// scanOnce serves unserved advertisements the queue missed
func (w *AdServeWorker) scanOnce(ctx context.Context) {
	now := utils.UTCNow()
	after := now.Add(-w.scanLookback)
	before := now.Add(-w.scanGrace)

	filter := models.AdvertisementFilter{
		Unserved:      utils.ToPtr(true),
		CreatedAfter:  &after,
		CreatedBefore: &before,
	}

	ads, err := w.adRepo.ByFilter(ctx, filter, "created_at ASC", w.scanBatch, 0)
	if err != nil {
		w.logger.Printf("worker: backstop scan query failed: %v", err)
		return
	}
	if len(ads) == 0 {
		return
	}

	w.logger.Printf("worker: backstop scan found %d unserved advertisements", len(ads))
	for _, ad := range ads {
		select {
		case <-ctx.Done():
			return
		default:
		}
		w.serveOne(ctx, ad.UUID.String(), "")
	}
}

func (w *AdServeWorker) serveOne(ctx context.Context, advertisementUUID, correlationID string) {
	result, err := w.serveFlow.ServeAdvertisement(ctx, advertisementUUID, correlationID)
	if err != nil {
		w.logger.Printf("worker: serving advertisement %s failed: %v", advertisementUUID, err)
		return
	}
	if result.Replayed {
		w.logger.Printf("worker: advertisement %s replayed with count %d", advertisementUUID, result.EngagedUserCount)
		return
	}
	w.logger.Printf("worker: advertisement %s served over %s, matched %d, engaged %d",
		advertisementUUID, result.Channel, result.MatchedUserCount, result.EngagedUserCount)
}
