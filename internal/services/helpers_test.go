package services_test

import (
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/abrezinsky/rosterdraw/internal/logger"
	"github.com/abrezinsky/rosterdraw/internal/metrics"
	"github.com/abrezinsky/rosterdraw/internal/models"
	"github.com/abrezinsky/rosterdraw/internal/repository"
	"github.com/abrezinsky/rosterdraw/internal/roster"
	"github.com/abrezinsky/rosterdraw/internal/services"
	"github.com/abrezinsky/rosterdraw/internal/testutil"
)

type sentMessage struct {
	Type    string
	Payload interface{}
}

type mockBroadcaster struct {
	mu   sync.Mutex
	sent []sentMessage
}

func (m *mockBroadcaster) Broadcast(msgType string, payload interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMessage{Type: msgType, Payload: payload})
}

func (m *mockBroadcaster) types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.sent))
	for i, msg := range m.sent {
		out[i] = msg.Type
	}
	return out
}

func (m *mockBroadcaster) last(msgType string) (interface{}, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.sent) - 1; i >= 0; i-- {
		if m.sent[i].Type == msgType {
			return m.sent[i].Payload, true
		}
	}
	return nil, false
}

func (m *mockBroadcaster) count(msgType string) int {
	n := 0
	for _, typ := range m.types() {
		if typ == msgType {
			n++
		}
	}
	return n
}

// fixture wires a roster store to draw and roster services the same way the app does
type fixture struct {
	log    logger.Logger
	repo   *repository.Repository
	store  *roster.Store
	roster *services.RosterService
	draw   *services.DrawService
	bc     *mockBroadcaster
	m      *metrics.Metrics
}

func newFixture(t *testing.T, repo repository.FullRepository) *fixture {
	t.Helper()
	log := testutil.NewTestLogger()
	realRepo := testutil.NewTestRepository(t)
	if repo == nil {
		repo = realRepo
	}

	f := &fixture{
		log:   log,
		repo:  realRepo,
		store: roster.NewStore(),
		bc:    &mockBroadcaster{},
		m:     metrics.New(),
	}
	f.roster = services.NewRosterService(log, f.store, f.m)
	f.draw = services.NewDrawService(log, repo, f.m, services.DrawOptions{
		Ticks:    3,
		Interval: time.Millisecond,
		Rand:     rand.New(rand.NewPCG(7, 11)),
	})
	f.store.Subscribe(f.draw.SyncRoster)
	f.roster.SetBroadcaster(f.bc)
	f.draw.SetBroadcaster(f.bc)
	t.Cleanup(f.draw.Close)
	return f
}

func names(list []models.Participant) []string {
	out := make([]string, len(list))
	for i, p := range list {
		out[i] = p.Name
	}
	return out
}
