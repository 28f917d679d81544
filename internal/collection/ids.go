package collection

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// IDGenerator produces fresh task IDs.
type IDGenerator interface {
	NewID() string
}

// Supported values for ids.strategy.
const (
	StrategyTime = "time"
	StrategyUUID = "uuid"
)

// TimeIDs issues millisecond timestamps as IDs. IDs are strictly
// increasing, even when several are requested within one millisecond.
type TimeIDs struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewTimeIDs creates a generator reading the wall clock.
func NewTimeIDs() *TimeIDs {
	return &TimeIDs{now: time.Now}
}

func (g *TimeIDs) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return strconv.FormatInt(ms, 10)
}

// UUIDs issues random version 4 UUIDs.
type UUIDs struct{}

func (UUIDs) NewID() string {
	return uuid.NewString()
}

// NewIDGenerator returns the generator for a strategy name.
func NewIDGenerator(strategy string) (IDGenerator, error) {
	switch strings.ToLower(strategy) {
	case "", StrategyTime:
		return NewTimeIDs(), nil
	case StrategyUUID:
		return UUIDs{}, nil
	default:
		return nil, fmt.Errorf("unknown id strategy %q (want %s or %s)", strategy, StrategyTime, StrategyUUID)
	}
}
