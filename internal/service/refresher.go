package service

import (
	"context"
	"sync"
	"time"

	"github.com/indredK/history-sub002/internal/domain"
	"go.uber.org/zap"
)

// CachedAssets is an AssetLoader whose cache can be dropped.
type CachedAssets interface {
	AssetLoader
	Invalidate()
}

// RefresherService periodically drops the asset cache and reloads every
// resource, so edits to the static files show up without a restart.
type RefresherService struct {
	assets CachedAssets
	logger *zap.Logger

	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewRefresherService(assets CachedAssets, interval time.Duration, logger *zap.Logger) *RefresherService {
	return &RefresherService{
		assets:   assets,
		logger:   logger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start runs the refresher on a periodic schedule in a background goroutine.
func (s *RefresherService) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.logger.Info("asset refresher started", zap.Duration("interval", s.interval))

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				s.assets.Invalidate()
				s.Warm(ctx)
				cancel()
			case <-s.stopCh:
				s.logger.Info("asset refresher stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the refresher. It is safe to call more than once.
func (s *RefresherService) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
	s.wg.Wait()
}

// Warm loads every resource's asset into the cache and returns the item
// count per resource. Missing or broken assets are logged and counted as 0.
func (s *RefresherService) Warm(ctx context.Context) map[string]int {
	counts := make(map[string]int)
	for _, res := range domain.Resources() {
		items, err := s.assets.Load(ctx, res.Asset)
		if err != nil {
			s.logger.Warn("asset unavailable", zap.String("resource", res.Name), zap.Error(err))
			counts[res.Name] = 0
			continue
		}
		counts[res.Name] = len(items)
	}
	s.logger.Debug("assets warmed", zap.Any("counts", counts))
	return counts
}
