// Package services provides internal service implementations for the RPI backend.
package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/ortelius/rpi-backend/database"
	"github.com/ortelius/rpi-backend/events/modules/findings"
	"github.com/ortelius/rpi-backend/internal/engine"
	"github.com/ortelius/rpi-backend/model"
	"go.uber.org/zap"
)

// ScanService runs the prioritization pipeline and persists the results.
// The REST scan endpoint and the Kafka consumer both delegate here so every
// ingestion path scores and stores findings identically.
type ScanService struct {
	DB       database.DBConnection
	Log      *zap.SugaredLogger
	Producer *findings.RunProducer // optional, publishes run-completed events

	mu  sync.RWMutex
	cfg *engine.Config
}

// NewScanService wires a scan service with the given engine config.
func NewScanService(db database.DBConnection, cfg *engine.Config, log *zap.SugaredLogger) *ScanService {
	if cfg == nil {
		cfg = engine.DefaultConfig()
	}
	return &ScanService{DB: db, Log: log, cfg: cfg}
}

// Config returns a copy of the live engine config.
func (s *ScanService) Config() *engine.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Clone()
}

// ReplaceConfig validates and atomically swaps the live config. Runs already
// in flight keep the snapshot they started with.
func (s *ScanService) ReplaceConfig(cfg *engine.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.cfg = cfg.Clone()
	s.mu.Unlock()
	return nil
}

// RunScan scores a batch of raw findings, persists the ranked results and
// returns the run summary.
func (s *ScanService) RunScan(ctx context.Context, raw []model.RawFinding) (*model.RunSummary, error) {
	s.mu.RLock()
	cfg := s.cfg
	s.mu.RUnlock()

	p, err := engine.NewPrioritizer(cfg, s.Log)
	if err != nil {
		return nil, err
	}

	ranking, err := p.Process(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("prioritization failed: %w", err)
	}

	summary := ranking.Summary()
	if len(ranking.Records) > 0 {
		if err := database.SaveFindings(ctx, s.DB, ranking.Records); err != nil {
			return nil, err
		}
	}
	if err := database.SaveRun(ctx, s.DB, summary); err != nil {
		return nil, err
	}

	if s.Producer != nil {
		if err := s.Producer.PublishRunCompleted(ctx, *summary); err != nil && s.Log != nil {
			s.Log.Warnf("failed to publish run-completed event for %s: %v", summary.RunID, err)
		}
	}

	if s.Log != nil {
		s.Log.Infof("run %s: %d findings ranked, %d skipped, top RPI %.1f",
			summary.RunID, summary.Total, summary.Skipped, summary.MaxRPI)
	}
	return summary, nil
}
