package search

import (
	"time"

	"github.com/google/uuid"
)

// RunState is a Result's terminal state.
type RunState int

const (
	// RunCompleted means the level loop finished without cancellation:
	// either every configured level ran, or a level produced no
	// candidates to seed the next one.
	RunCompleted RunState = iota
	// RunCancelled means the run stopped early because Config.Cancel was
	// done, detected at a level boundary or during a level's evaluations.
	RunCancelled
)

func (s RunState) String() string {
	if s == RunCancelled {
		return "cancelled"
	}
	return "completed"
}

// EventKind tags an Event's populated fields (spec.md §4.11's progress
// schema).
type EventKind int

const (
	EventSearchStarted EventKind = iota
	EventSearchLevel
	EventIPFIteration
	EventSearchComplete
)

// Event is one progress notification. Only the fields relevant to Kind
// are meaningful; the rest are zero. Progress callbacks may be invoked
// from worker goroutines and must be safe for concurrent use.
type Event struct {
	Kind  EventKind
	RunID uuid.UUID

	// SearchStarted
	TotalLevels   int
	StatisticName string

	// SearchLevel
	Level                int
	TotalModelsEvaluated int
	Loopless             int
	Loops                int
	BestName             string
	BestStat             float64
	LevelElapsed         time.Duration
	Elapsed              time.Duration
	EstimatedRemaining   time.Duration
	AvgModelElapsed      time.Duration
	CacheHitRate         float64

	// IPFIteration
	ModelName  string
	Iter       int
	MaxIter    int
	IPFError   float64
	Converged  bool
	StateCount int64
	RelCount   int

	// SearchComplete
	FinalState RunState
}
