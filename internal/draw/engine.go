// Package draw implements the prize draw: a pool of not-yet-drawn participants,
// a bounded winner history and an animated spin that commits one winner.
package draw

import (
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/abrezinsky/rosterdraw/internal/models"
)

const (
	// HistoryLimit caps the newest-first winner history
	HistoryLimit = 10
	// DefaultTicks is how many names flash before the winner is committed
	DefaultTicks = 30
	// DefaultInterval is the delay between animation ticks
	DefaultInterval = 100 * time.Millisecond
)

var (
	ErrEmptyRoster   = errors.New("no participants to draw from")
	ErrExhaustedPool = errors.New("every participant has already been drawn")
	ErrBusy          = errors.New("a draw is already in progress")
)

// TickFunc receives each cosmetic animation frame. It runs with the engine
// locked and must not call back into the Engine.
type TickFunc func(tick, total int, shown models.Participant)

// Options configures an Engine. Zero values fall back to the defaults.
type Options struct {
	Ticks    int
	Interval time.Duration
	Rand     *rand.Rand
	OnTick   TickFunc
}

// Engine owns the draw pool and history. All state changes go through its
// mutex, so an Engine is the single writer for its pool.
type Engine struct {
	mu          sync.Mutex
	roster      []models.Participant
	pool        []models.Participant
	allowRepeat bool
	history     []models.Participant
	lastWinner  *models.Participant
	spin        *Spin

	ticks    int
	interval time.Duration
	rng      *rand.Rand
	onTick   TickFunc
	wg       sync.WaitGroup
}

// New creates an engine with an empty roster
func New(opts Options) *Engine {
	if opts.Ticks < 1 {
		opts.Ticks = DefaultTicks
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Engine{
		ticks:    opts.Ticks,
		interval: opts.Interval,
		rng:      opts.Rand,
		onTick:   opts.OnTick,
	}
}

// Sync replaces the roster and refills the pool with a full copy of it.
// An in-flight spin is canceled; history is kept.
func (e *Engine) Sync(roster []models.Participant) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.cancelSpinLocked()
	e.roster = clone(roster)
	e.pool = clone(roster)
}

// Reset refills the pool from the roster and clears history and last winner
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.cancelSpinLocked()
	e.pool = clone(e.roster)
	e.history = nil
	e.lastWinner = nil
}

// SetRepeatMode toggles whether winners stay in the pool. The pool itself is
// not touched.
func (e *Engine) SetRepeatMode(allow bool) {
	e.mu.Lock()
	e.allowRepeat = allow
	e.mu.Unlock()
}

// State returns a snapshot of the engine
func (e *Engine) State() models.DrawState {
	e.mu.Lock()
	defer e.mu.Unlock()

	state := models.DrawState{
		Pool:        clone(e.pool),
		PoolSize:    len(e.pool),
		RosterSize:  len(e.roster),
		AllowRepeat: e.allowRepeat,
		History:     clone(e.history),
		Spinning:    e.spin != nil,
	}
	if e.lastWinner != nil {
		w := *e.lastWinner
		state.LastWinner = &w
	}
	return state
}

// Start begins an animated spin. It returns immediately; the spin's Done
// channel closes once the winner is committed. Precondition failures leave the engine unchanged.
func (e *Engine) Start() (*Spin, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.spin != nil {
		return nil, ErrBusy
	}
	if !e.allowRepeat && len(e.pool) == 0 {
		return nil, ErrExhaustedPool
	}

	source := e.pool
	if e.allowRepeat {
		source = e.roster
	}
	if len(source) == 0 {
		return nil, ErrEmptyRoster
	}

	spin := newSpin(e.allowRepeat, len(source))
	e.spin = spin

	e.wg.Add(1)
	go e.run(spin, clone(source))
	return spin, nil
}

// Close cancels any in-flight spin and waits for its goroutine to exit
func (e *Engine) Close() {
	e.mu.Lock()
	e.cancelSpinLocked()
	e.mu.Unlock()
	e.wg.Wait()
}

// run drives the animation ticker and then commits the winner
func (e *Engine) run(spin *Spin, source []models.Participant) {
	defer e.wg.Done()

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for i := 1; i <= e.ticks; i++ {
		select {
		case <-spin.ctx.Done():
			return
		case <-ticker.C:
		}
		if !e.tick(spin, source, i) {
			return
		}
	}
	e.commit(spin, source)
}

func (e *Engine) tick(spin *Spin, source []models.Participant, i int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.spin != spin {
		return false
	}
	shown := source[e.rng.IntN(len(source))]
	if e.onTick != nil {
		e.onTick(i, e.ticks, shown)
	}
	return true
}

// commit picks the winner with a fresh uniform draw, independent of the ticks
func (e *Engine) commit(spin *Spin, source []models.Participant) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.spin != spin {
		return
	}

	winner := source[e.rng.IntN(len(source))]

	e.history = append([]models.Participant{winner}, e.history...)
	if len(e.history) > HistoryLimit {
		e.history = e.history[:HistoryLimit]
	}
	if !spin.allowRepeat {
		e.pool = removeByID(e.pool, winner.ID)
	}
	w := winner
	e.lastWinner = &w
	e.spin = nil

	spin.finish(Outcome{Winner: winner, AllowRepeat: spin.allowRepeat})
}

func (e *Engine) cancelSpinLocked() {
	if e.spin == nil {
		return
	}
	e.spin.finish(Outcome{Canceled: true, AllowRepeat: e.spin.allowRepeat})
	e.spin = nil
}

func removeByID(list []models.Participant, id string) []models.Participant {
	out := list[:0:0]
	for _, p := range list {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}

func clone(list []models.Participant) []models.Participant {
	out := make([]models.Participant, len(list))
	copy(out, list)
	return out
}
