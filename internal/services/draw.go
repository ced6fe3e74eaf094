package services

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/abrezinsky/rosterdraw/internal/draw"
	"github.com/abrezinsky/rosterdraw/internal/logger"
	"github.com/abrezinsky/rosterdraw/internal/metrics"
	"github.com/abrezinsky/rosterdraw/internal/models"
	"github.com/abrezinsky/rosterdraw/internal/repository"
)

// DrawOptions tunes the draw animation
type DrawOptions struct {
	Ticks    int
	Interval time.Duration
	Rand     *rand.Rand
}

// DrawService runs the prize draw. It owns the draw engine, archives every
// committed winner and relays the animation to connected screens.
type DrawService struct {
	log         logger.Logger
	engine      *draw.Engine
	repo        repository.DrawResultRepository
	metrics     *metrics.Metrics
	broadcaster Broadcaster
	pending     sync.WaitGroup
}

// NewDrawService creates a new DrawService with its own engine
func NewDrawService(log logger.Logger, repo repository.DrawResultRepository, m *metrics.Metrics, opts DrawOptions) *DrawService {
	s := &DrawService{log: log, repo: repo, metrics: m}
	s.engine = draw.New(draw.Options{
		Ticks:    opts.Ticks,
		Interval: opts.Interval,
		Rand:     opts.Rand,
		OnTick:   s.onTick,
	})
	return s
}

// SetBroadcaster sets the broadcaster for sending updates to clients.
// Call it before the first draw.
func (s *DrawService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// SyncRoster refills the pool from a replaced roster. It is registered as a
// roster.Store listener.
func (s *DrawService) SyncRoster(list []models.Participant) {
	s.engine.Sync(list)
	s.broadcast(models.MsgDrawState, s.engine.State())
}

// State returns the pool, history and mode
func (s *DrawService) State(ctx context.Context) models.DrawState {
	return s.engine.State()
}

// Draw starts a spin. The winner is archived and broadcast when the spin
// commits; callers that want it synchronously can Wait on the returned spin.
func (s *DrawService) Draw(ctx context.Context) (*draw.Spin, error) {
	spin, err := s.engine.Start()
	if err != nil {
		s.log.Debug("Draw rejected", "error", err)
		return nil, err
	}

	s.log.Info("Draw started", "candidates", spin.Candidates(), "allow_repeat", spin.AllowRepeat())
	s.broadcast(models.MsgDrawStarted, models.DrawStarted{
		AllowRepeat: spin.AllowRepeat(),
		Candidates:  spin.Candidates(),
	})

	s.pending.Add(1)
	go s.await(spin)
	return spin, nil
}

// SetRepeatMode toggles whether winners stay in the pool
func (s *DrawService) SetRepeatMode(ctx context.Context, allow bool) models.DrawState {
	s.engine.SetRepeatMode(allow)
	state := s.engine.State()
	s.log.Info("Draw mode changed", "allow_repeat", allow)
	s.broadcast(models.MsgDrawState, state)
	return state
}

// Reset refills the pool and clears the history. It cancels any spin in flight.
func (s *DrawService) Reset(ctx context.Context, confirm bool) (models.DrawState, error) {
	if !confirm {
		return models.DrawState{}, ErrConfirmationRequired
	}
	s.engine.Reset()
	state := s.engine.State()
	s.log.Info("Draw pool reset", "pool", state.PoolSize)
	s.broadcast(models.MsgDrawState, state)
	return state, nil
}

// Results returns archived winners, newest first
func (s *DrawService) Results(ctx context.Context, limit int) ([]models.DrawRecord, error) {
	return s.repo.ListDrawResults(ctx, limit)
}

// Close cancels any spin in flight and waits for pending result handling
func (s *DrawService) Close() {
	s.engine.Close()
	s.pending.Wait()
}

func (s *DrawService) await(spin *draw.Spin) {
	defer s.pending.Done()

	<-spin.Done()
	out := spin.Outcome()
	if out.Canceled {
		s.log.Debug("Draw canceled before commit")
		return
	}

	s.metrics.DrawCommitted(out.AllowRepeat)
	if _, err := s.repo.RecordDraw(context.Background(), out.Winner, out.AllowRepeat); err != nil {
		s.log.Error("Failed to archive draw result", "winner", out.Winner.Name, "error", err)
	}

	s.log.Info("Draw committed", "winner", out.Winner.Name)
	s.broadcast(models.MsgDrawResult, models.DrawResult{
		Winner: out.Winner,
		State:  s.engine.State(),
	})
}

// onTick runs under the engine lock; it only hands the frame to the broadcaster
func (s *DrawService) onTick(tick, total int, shown models.Participant) {
	s.broadcast(models.MsgDrawTick, models.DrawTick{Tick: tick, Total: total, Shown: shown})
}

func (s *DrawService) broadcast(msgType string, payload interface{}) {
	if s.broadcaster != nil {
		s.broadcaster.Broadcast(msgType, payload)
	}
}
