// Package partition splits a roster into fixed-size groups and labels them.
package partition

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"

	"github.com/abrezinsky/rosterdraw/internal/models"
	"github.com/abrezinsky/rosterdraw/pkg/naming"
)

const (
	MinGroupSize     = 2
	MaxGroupSize     = 20
	DefaultGroupSize = 4

	// DefaultMotto labels groups the naming service did not cover
	DefaultMotto = "Stronger together, achieving more."
)

var ErrEmptyRoster = errors.New("no participants to group")

// ValidSize reports whether size is within the supported group size range
func ValidSize(size int) bool {
	return size >= MinGroupSize && size <= MaxGroupSize
}

// Partition shuffles the roster without bias and cuts it into consecutive
// chunks of size. The last chunk holds the remainder. size must be within
// [MinGroupSize, MaxGroupSize]; callers validate it.
func Partition(rng *rand.Rand, roster []models.Participant, size int) ([][]models.Participant, error) {
	if len(roster) == 0 {
		return nil, ErrEmptyRoster
	}

	shuffled := make([]models.Participant, len(roster))
	copy(shuffled, roster)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	count := (len(shuffled) + size - 1) / size
	chunks := make([][]models.Participant, 0, count)
	for start := 0; start < len(shuffled); start += size {
		end := min(start+size, len(shuffled))
		chunks = append(chunks, shuffled[start:end:end])
	}
	return chunks, nil
}

// FallbackName is the deterministic label for the group at index
func FallbackName(index int) string {
	return fmt.Sprintf("Group %d", index+1)
}

// Decorate turns chunks into groups and asks namer for their names and mottos.
// Membership is fixed before the call; a failed or short answer falls back per
// group. fellBack reports whether any group used the fallback; err is the
// naming failure, if any, and never leaves groups incomplete.
func Decorate(ctx context.Context, namer naming.Client, chunks [][]models.Participant) (groups []models.Group, fellBack bool, err error) {
	groups = make([]models.Group, len(chunks))
	for i, members := range chunks {
		groups[i] = models.Group{
			ID:      uuid.NewString(),
			Members: members,
		}
	}

	var teams []naming.Team
	if len(groups) > 0 {
		teams, err = namer.RequestNames(ctx, len(groups))
	}

	for i := range groups {
		var team naming.Team
		if i < len(teams) {
			team = teams[i]
		}

		groups[i].Name = strings.TrimSpace(team.Name)
		if groups[i].Name == "" {
			groups[i].Name = FallbackName(i)
			fellBack = true
		}
		groups[i].Motto = strings.TrimSpace(team.Motto)
		if groups[i].Motto == "" {
			groups[i].Motto = DefaultMotto
			fellBack = true
		}
	}
	return groups, fellBack, err
}
