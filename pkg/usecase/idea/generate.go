package idea

import (
	"context"
	"strings"
	"sync"

	"github.com/daper-app/daper/pkg/flows"
	"github.com/daper-app/daper/pkg/model"
	"github.com/daper-app/daper/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// GenerateInput is one idea-generation submission. RequestID is a fresh
// client-supplied identifier; resubmitting with the same ID is rejected as a
// duplicate while the lock is live.
type GenerateInput struct {
	IdeaText  string
	UserID    string
	Language  model.Language
	RequestID string
}

// Validate checks the submission fields
func (x *GenerateInput) Validate() error {
	if len(strings.TrimSpace(x.IdeaText)) < model.MinIdeaTextLength {
		return goerr.Wrap(model.ErrInvalidInput, "idea text is too short",
			goerr.V("min", model.MinIdeaTextLength))
	}
	if x.UserID == "" {
		return goerr.Wrap(model.ErrInvalidInput, "user ID is required")
	}
	if x.RequestID == "" {
		return goerr.Wrap(model.ErrInvalidInput, "request ID is required")
	}
	return x.Language.Validate()
}

// Generate runs the full idea-generation lifecycle: acquire the submission
// lock, consume quota, generate title/summary/outline concurrently, persist
// the idea, then count it against the owner. If any generation call fails the
// whole operation fails and nothing is persisted. The lock is deliberately not
// rolled back on failure; the client retries with a fresh request ID.
func (u *UseCase) Generate(ctx context.Context, input *GenerateInput) (*model.Idea, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	ttl := u.usage.Limits().LockTTL
	if err := u.repo.AcquireLock(ctx, input.RequestID, input.UserID, u.now(), ttl); err != nil {
		return nil, err
	}

	if err := u.usage.Consume(ctx, input.UserID); err != nil {
		return nil, err
	}

	var (
		wg      sync.WaitGroup
		title   *flows.TitleOutput
		summary *flows.SummaryOutput
		outline *flows.OutlineOutput
		errs    = make([]error, 3)
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		title, errs[0] = u.flows.GenerateTitle(ctx, &flows.TitleInput{
			IdeaText: input.IdeaText,
			Language: input.Language,
		})
	}()
	go func() {
		defer wg.Done()
		summary, errs[1] = u.flows.GenerateSummary(ctx, &flows.SummaryInput{
			IdeaText: input.IdeaText,
			Language: input.Language,
		})
	}()
	go func() {
		defer wg.Done()
		outline, errs[2] = u.flows.GenerateOutline(ctx, &flows.OutlineInput{
			IdeaText: input.IdeaText,
			Language: input.Language,
		})
	}()
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	now := u.now()
	idea := &model.Idea{
		ID:        model.NewIdeaID(),
		Title:     title.Title,
		Summary:   summary.Summary,
		Outline:   outline.Outline,
		Favorited: false,
		CreatedAt: now,
		UpdatedAt: now,
		UserID:    input.UserID,
		Language:  input.Language,
	}

	if err := u.repo.CreateIdea(ctx, idea); err != nil {
		return nil, err
	}

	// The counter increment is a separate write from the idea insert. If it
	// fails the idea still exists and the count drifts low; accepted, so the
	// created idea is returned regardless.
	if err := u.repo.UpdateUser(ctx, input.UserID, func(user *model.User) error {
		user.IdeaCount++
		return nil
	}); err != nil {
		logging.From(ctx).Warn("failed to increment idea counter",
			"uid", input.UserID, "ideaId", idea.ID, "error", err)
	}

	return idea, nil
}
