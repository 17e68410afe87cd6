// Package memory keeps every repository in process memory. All repositories
// built on one DB share a single lock, so multi-entity writes are atomic the
// way a transaction is in the postgres adapter.
package memory

import (
	"bytes"
	"sync"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/bassclub/internal/core/domain"
)

type seasonRow struct {
	season         domain.Season
	resultsVersion int64
}

type DB struct {
	mu sync.Mutex

	anglers     map[uuid.UUID]domain.Angler
	seasons     map[uuid.UUID]*seasonRow
	events      map[uuid.UUID]*domain.Event
	catches     map[uuid.UUID]map[uuid.UUID]domain.CatchRecord
	corrections map[uuid.UUID][]domain.CatchCorrection
	results     map[uuid.UUID][]domain.EventResult
	standings   map[uuid.UUID][]domain.SeasonStandingEntry
	polls       map[uuid.UUID]*domain.Poll
	votes       map[uuid.UUID]map[uuid.UUID]domain.Vote
}

func NewDB() *DB {
	return &DB{
		anglers:     make(map[uuid.UUID]domain.Angler),
		seasons:     make(map[uuid.UUID]*seasonRow),
		events:      make(map[uuid.UUID]*domain.Event),
		catches:     make(map[uuid.UUID]map[uuid.UUID]domain.CatchRecord),
		corrections: make(map[uuid.UUID][]domain.CatchCorrection),
		results:     make(map[uuid.UUID][]domain.EventResult),
		standings:   make(map[uuid.UUID][]domain.SeasonStandingEntry),
		polls:       make(map[uuid.UUID]*domain.Poll),
		votes:       make(map[uuid.UUID]map[uuid.UUID]domain.Vote),
	}
}

func idLess(a, b uuid.UUID) bool {
	return bytes.Compare(a[:], b[:]) < 0
}
