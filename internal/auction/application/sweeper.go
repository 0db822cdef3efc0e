package application

import (
	"context"
	"sync"
	"time"

	"github.com/agribid/auction-engine/internal/auction/domain"
	"go.uber.org/zap"
)

// Sweeper is the durable closure trigger. The legacy client closed auctions
// from a countdown timer that only existed while a screen was mounted, so a
// lot could stay open forever if nobody was watching at expiry. The sweeper
// runs server-side on a ticker, scanning for AVAILABLE lots past their
// deadline and closing each through the Clock.
type Sweeper struct {
	clock    *Clock
	lots     domain.LotRepository
	interval time.Duration
	timeout  time.Duration

	ticker   *time.Ticker
	stopCh   chan struct{}
	stopOnce sync.Once
	mu       sync.Mutex
	running  bool
	now      NowFunc
}

func NewSweeper(clock *Clock, lots domain.LotRepository, interval, timeout time.Duration) *Sweeper {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &Sweeper{
		clock:    clock,
		lots:     lots,
		interval: interval,
		timeout:  timeout,
		stopCh:   make(chan struct{}),
		now:      defaultNow,
	}
}

// Start begins the periodic sweep. Safe to call once; subsequent calls are
// no-ops.
func (s *Sweeper) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.ticker = time.NewTicker(s.interval)
	s.mu.Unlock()

	log.Info("closure sweep started", zap.Duration("interval", s.interval))
	go s.run()
}

func (s *Sweeper) run() {
	for {
		select {
		case <-s.ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
			if _, err := s.RunOnce(ctx); err != nil {
				log.Error("closure sweep failed", zap.Error(err))
			}
			cancel()
		case <-s.stopCh:
			log.Info("closure sweep stopped")
			return
		}
	}
}

// RunOnce performs a single sweep and returns how many lots it closed.
// Failures on individual lots are logged and do not stop the sweep.
func (s *Sweeper) RunOnce(ctx context.Context) (int, error) {
	expired, err := s.lots.ListExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}

	closed := 0
	for _, lot := range expired {
		res, err := s.clock.CloseIfExpired(ctx, lot.ID)
		if err != nil {
			log.Error("failed to close expired lot",
				zap.String("lotID", lot.ID.String()),
				zap.Error(err),
			)
			continue
		}
		if res.Closed {
			closed++
		}
	}

	if closed > 0 {
		log.Info("closure sweep finished",
			zap.Int("expired", len(expired)),
			zap.Int("closed", closed),
		)
	}
	return closed, nil
}

// Stop halts the sweep loop.
func (s *Sweeper) Stop() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.ticker != nil {
			s.ticker.Stop()
		}
		close(s.stopCh)
		s.running = false
	})
}
