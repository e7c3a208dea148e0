package usage

import (
	"time"

	"github.com/daper-app/daper/pkg/repository"
)

// Limits holds the free-tier quota constants. Paid users are unlimited.
type Limits struct {
	FreeIdeaLimit  int           `yaml:"freeIdeaLimit"`
	FreeDailyLimit int           `yaml:"freeDailyLimit"`
	Window         time.Duration `yaml:"window"`
	LockTTL        time.Duration `yaml:"lockTTL"`
}

// DefaultLimits returns the standard quota: five saved ideas, two generations
// per rolling 24 hours, ten-minute submission lock TTL.
func DefaultLimits() Limits {
	return Limits{
		FreeIdeaLimit:  5,
		FreeDailyLimit: 2,
		Window:         24 * time.Hour,
		LockTTL:        10 * time.Minute,
	}
}

// UseCase provides quota enforcement and the usage projection
type UseCase struct {
	repo   repository.Repository
	limits Limits
	now    func() time.Time
}

// Option is a functional option for UseCase
type Option func(*UseCase)

// WithLimits overrides the default quota limits
func WithLimits(limits Limits) Option {
	return func(uc *UseCase) {
		uc.limits = limits
	}
}

// WithClock overrides the time source, used by tests
func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) {
		uc.now = now
	}
}

// New creates a new usage UseCase instance
func New(repo repository.Repository, opts ...Option) *UseCase {
	uc := &UseCase{
		repo:   repo,
		limits: DefaultLimits(),
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

// Limits returns the configured quota limits
func (u *UseCase) Limits() Limits {
	return u.limits
}
