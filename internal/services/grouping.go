package services

import (
	"context"
	stderrors "errors"
	"io"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/abrezinsky/rosterdraw/internal/errors"
	"github.com/abrezinsky/rosterdraw/internal/export"
	"github.com/abrezinsky/rosterdraw/internal/logger"
	"github.com/abrezinsky/rosterdraw/internal/metrics"
	"github.com/abrezinsky/rosterdraw/internal/models"
	"github.com/abrezinsky/rosterdraw/internal/partition"
	"github.com/abrezinsky/rosterdraw/internal/repository"
	"github.com/abrezinsky/rosterdraw/internal/roster"
	"github.com/abrezinsky/rosterdraw/pkg/naming"
)

// GroupingService splits the roster into named groups. Each run replaces the
// previous groups entirely.
type GroupingService struct {
	log         logger.Logger
	store       *roster.Store
	repo        repository.GroupRunRepository
	namer       naming.Client
	metrics     *metrics.Metrics
	broadcaster Broadcaster
	now         func() time.Time

	runMu   sync.Mutex // serializes runs and guards rng
	rng     *rand.Rand
	mu      sync.RWMutex
	current *models.GroupSet
}

// NewGroupingService creates a new GroupingService. A nil rng seeds one at random.
func NewGroupingService(log logger.Logger, store *roster.Store, repo repository.GroupRunRepository, namer naming.Client, m *metrics.Metrics, rng *rand.Rand) *GroupingService {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if namer == nil {
		namer = naming.Disabled{}
	}
	return &GroupingService{
		log:     log,
		store:   store,
		repo:    repo,
		namer:   namer,
		metrics: m,
		rng:     rng,
		now:     time.Now,
	}
}

// SetBroadcaster sets the broadcaster for sending updates to clients
func (s *GroupingService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Generate partitions a snapshot of the roster into groups of size and names
// them. A naming failure falls back to numbered groups and is not an error.
func (s *GroupingService) Generate(ctx context.Context, size int) (*models.GroupSet, error) {
	if !partition.ValidSize(size) {
		return nil, ErrInvalidGroupSize
	}

	s.runMu.Lock()
	defer s.runMu.Unlock()

	chunks, err := partition.Partition(s.rng, s.store.Current(), size)
	if err != nil {
		return nil, err
	}

	groups, fellBack, err := partition.Decorate(ctx, s.namer, chunks)
	if err != nil {
		s.log.Warn("Naming service unavailable, using fallback names", "groups", len(groups), "error", err)
	}

	set := &models.GroupSet{
		GroupSize:   size,
		Groups:      groups,
		FellBack:    fellBack,
		GeneratedAt: s.now(),
	}

	runID, err := s.repo.SaveGroupRun(ctx, *set)
	if err != nil {
		s.log.Error("Failed to archive group run", "error", err)
	} else {
		set.RunID = runID
	}

	s.mu.Lock()
	s.current = set
	s.mu.Unlock()

	s.metrics.PartitionCompleted(fellBack)
	s.log.Info("Groups generated", "groups", len(groups), "size", size, "fell_back", fellBack)

	if s.broadcaster != nil {
		s.broadcaster.Broadcast(models.MsgGroupsReady, set)
	}
	return set, nil
}

// Current returns the latest groups, or nil before the first run
func (s *GroupingService) Current(ctx context.Context) *models.GroupSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// ExportCSV writes the latest groups as a spreadsheet-friendly CSV
func (s *GroupingService) ExportCSV(ctx context.Context, w io.Writer) error {
	set := s.Current(ctx)
	if set == nil {
		return ErrNoGroups
	}
	return export.WriteGroupsCSV(w, set.Groups)
}

// Runs lists archived partition runs, newest first
func (s *GroupingService) Runs(ctx context.Context) ([]models.GroupRun, error) {
	return s.repo.ListGroupRuns(ctx)
}

// Run returns one archived run with its groups
func (s *GroupingService) Run(ctx context.Context, id int64) (*models.GroupRun, error) {
	run, err := s.repo.GetGroupRun(ctx, id)
	if stderrors.Is(err, repository.ErrNotFound) {
		return nil, errors.NotFoundf("group run %d not found", id)
	}
	return run, err
}
