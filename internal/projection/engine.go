package projection

import (
	"time"

	"github.com/iwvelando/wealth-math/internal/portfolio"
	"go.uber.org/zap"
)

// Engine runs projections against an injectable clock. It holds no mutable
// state and is safe for concurrent use.
type Engine struct {
	logger *zap.Logger
	clock  func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces the wall clock used to age instruments.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// NewEngine returns an engine reading time.Now unless WithClock is given.
func NewEngine(logger *zap.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{logger: logger, clock: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Now returns the engine's current instant.
func (e *Engine) Now() time.Time {
	return e.clock()
}

// Project runs Project with the engine's clock.
func (e *Engine) Project(instruments []portfolio.Instrument, yearsToRetirement *float64, inflationRatePercent float64) Result {
	now := e.clock()
	if yearsToRetirement == nil {
		e.logger.Debug("no horizon established, skipping projection",
			zap.String("op", "projection.Engine.Project"),
			zap.Int("instruments", len(instruments)),
		)
		return Result{}
	}

	result := Project(instruments, yearsToRetirement, inflationRatePercent, now)
	e.logger.Debug("projection computed",
		zap.String("op", "projection.Engine.Project"),
		zap.Time("now", now),
		zap.Float64("horizon", *yearsToRetirement),
		zap.Float64("inflation", inflationRatePercent),
		zap.Float64("assets", *result.ProjectedAssets),
		zap.Float64("liabilities", *result.ProjectedLiabilities),
	)
	return result
}
