package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/taskforge-dev/taskforge/internal/store"
)

// TokenSweeper periodically removes expired refresh token rows. Expired
// tokens are already rejected on verification; the sweep keeps the table from
// growing without bound.
type TokenSweeper struct {
	tokens   store.RefreshTokenStore
	interval time.Duration
	logger   *slog.Logger
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

func NewTokenSweeper(tokens store.RefreshTokenStore, interval time.Duration, logger *slog.Logger) *TokenSweeper {
	ctx, cancel := context.WithCancel(context.Background())
	return &TokenSweeper{
		tokens:   tokens,
		interval: interval,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (s *TokenSweeper) Start() {
	s.logger.Info("starting refresh token sweeper", "interval", s.interval)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.sweep()
			}
		}
	}()
}

func (s *TokenSweeper) Stop() {
	s.cancel()
	s.wg.Wait()
	s.logger.Info("refresh token sweeper stopped")
}

func (s *TokenSweeper) sweep() {
	removed, err := s.tokens.DeleteExpired(s.ctx, time.Now())
	if err != nil {
		s.logger.Error("failed to sweep expired refresh tokens", "error", err)
		return
	}
	if removed > 0 {
		s.logger.Info("swept expired refresh tokens", "removed", removed)
	}
}
