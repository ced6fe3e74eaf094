package draw

import (
	"context"
	"sync"

	"github.com/abrezinsky/rosterdraw/internal/models"
)

// Outcome is the result of one spin
type Outcome struct {
	Winner      models.Participant
	AllowRepeat bool
	Canceled    bool
}

// Spin is the handle for one in-flight draw. Any number of goroutines may
// wait on it; all of them observe the same Outcome.
type Spin struct {
	ctx         context.Context
	cancel      context.CancelFunc
	done        chan struct{}
	once        sync.Once
	outcome     Outcome
	allowRepeat bool
	candidates  int
}

func newSpin(allowRepeat bool, candidates int) *Spin {
	ctx, cancel := context.WithCancel(context.Background())
	return &Spin{
		ctx:         ctx,
		cancel:      cancel,
		done:        make(chan struct{}),
		allowRepeat: allowRepeat,
		candidates:  candidates,
	}
}

// Done is closed once the spin has either committed a winner or been canceled
func (s *Spin) Done() <-chan struct{} {
	return s.done
}

// Outcome returns the result. It is only meaningful after Done is closed.
func (s *Spin) Outcome() Outcome {
	<-s.done
	return s.outcome
}

// Wait blocks until the spin finishes or ctx ends
func (s *Spin) Wait(ctx context.Context) (Outcome, error) {
	select {
	case <-s.done:
		return s.outcome, nil
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	}
}

// AllowRepeat reports the mode the spin was started in
func (s *Spin) AllowRepeat() bool {
	return s.allowRepeat
}

// Candidates is the size of the list the winner is drawn from
func (s *Spin) Candidates() int {
	return s.candidates
}

func (s *Spin) finish(out Outcome) {
	s.once.Do(func() {
		s.cancel()
		s.outcome = out
		close(s.done)
	})
}
