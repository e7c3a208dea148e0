package idea

import (
	"time"

	"github.com/daper-app/daper/pkg/flows"
	"github.com/daper-app/daper/pkg/repository"
	"github.com/daper-app/daper/pkg/usecase/usage"
)

// UseCase provides idea-related operations: the generation lifecycle and CRUD
// over saved ideas.
type UseCase struct {
	repo  repository.Repository
	flows flows.Flows
	usage *usage.UseCase
	now   func() time.Time
}

// Option is a functional option for UseCase
type Option func(*UseCase)

// WithClock overrides the time source, used by tests
func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) {
		uc.now = now
	}
}

// New creates a new idea UseCase instance
func New(
	repo repository.Repository,
	genFlows flows.Flows,
	usageUC *usage.UseCase,
	opts ...Option,
) *UseCase {
	uc := &UseCase{
		repo:  repo,
		flows: genFlows,
		usage: usageUC,
		now:   time.Now,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}
