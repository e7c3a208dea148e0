package idea_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/daper-app/daper/pkg/flows"
	"github.com/daper-app/daper/pkg/model"
	"github.com/daper-app/daper/pkg/repository"
	"github.com/daper-app/daper/pkg/usecase/idea"
	"github.com/daper-app/daper/pkg/usecase/usage"
	"github.com/m-mizutani/gt"
)

// stubFlows returns canned artifacts and records call counts
type stubFlows struct {
	titleErr   error
	titleCalls int
}

func (s *stubFlows) GenerateTitle(ctx context.Context, input *flows.TitleInput) (*flows.TitleOutput, error) {
	s.titleCalls++
	if s.titleErr != nil {
		return nil, s.titleErr
	}
	return &flows.TitleOutput{Title: "Generated Title"}, nil
}

func (s *stubFlows) GenerateSummary(ctx context.Context, input *flows.SummaryInput) (*flows.SummaryOutput, error) {
	return &flows.SummaryOutput{Summary: "Generated summary."}, nil
}

func (s *stubFlows) GenerateOutline(ctx context.Context, input *flows.OutlineInput) (*flows.OutlineOutput, error) {
	return &flows.OutlineOutput{Outline: "1. First\n2. Second"}, nil
}

func (s *stubFlows) GenerateMindMap(ctx context.Context, input *flows.MindMapInput) (*model.MindMapNode, error) {
	return &model.MindMapNode{Title: "Generated Title"}, nil
}

func (s *stubFlows) ExpandMindMapNode(ctx context.Context, input *flows.ExpandInput) ([]*model.MindMapNode, error) {
	return []*model.MindMapNode{{Title: "New Child"}}, nil
}

func (s *stubFlows) GenerateSuggestions(ctx context.Context, input *flows.SuggestionsInput) (*flows.Suggestions, error) {
	return &flows.Suggestions{Strengths: []string{"Strong demand"}}, nil
}

func (s *stubFlows) GenerateBusinessPlan(ctx context.Context, input *flows.BusinessPlanInput) (*flows.BusinessPlan, error) {
	return &flows.BusinessPlan{ExecutiveSummary: "Plan for " + input.Title}, nil
}

func setup(t *testing.T) (*idea.UseCase, *repository.Memory, *stubFlows) {
	repo := repository.NewMemory()
	flw := &stubFlows{}
	usageUC := usage.New(repo)
	uc := idea.New(repo, flw, usageUC)

	gt.NoError(t, repo.UpsertUser(context.Background(), &model.User{UID: "u1"}))
	return uc, repo, flw
}

func validInput(requestID string) *idea.GenerateInput {
	return &idea.GenerateInput{
		IdeaText:  "A monthly coffee bean subscription for home baristas",
		UserID:    "u1",
		Language:  model.LanguageEnglish,
		RequestID: requestID,
	}
}

func TestGenerate(t *testing.T) {
	uc, repo, _ := setup(t)
	ctx := context.Background()

	created, err := uc.Generate(ctx, validInput("req-1"))
	gt.NoError(t, err)
	gt.Equal(t, created.Title, "Generated Title")
	gt.Equal(t, created.Summary, "Generated summary.")
	gt.S(t, created.Outline).Contains("First")
	gt.Equal(t, created.UserID, "u1")
	gt.Equal(t, created.Language, model.LanguageEnglish)
	gt.False(t, created.Favorited)

	stored, err := repo.GetIdea(ctx, created.ID)
	gt.NoError(t, err)
	gt.Equal(t, stored.Title, created.Title)

	user, err := repo.GetUser(ctx, "u1")
	gt.NoError(t, err)
	gt.Equal(t, user.IdeaCount, 1)
	gt.Equal(t, user.APIRequestCount, 1)
}

func TestGenerateValidation(t *testing.T) {
	uc, _, _ := setup(t)
	ctx := context.Background()

	cases := map[string]*idea.GenerateInput{
		"short text": {
			IdeaText:  "too short",
			UserID:    "u1",
			Language:  model.LanguageEnglish,
			RequestID: "req-1",
		},
		"missing user": {
			IdeaText:  "A monthly coffee bean subscription",
			Language:  model.LanguageEnglish,
			RequestID: "req-1",
		},
		"missing request id": {
			IdeaText: "A monthly coffee bean subscription",
			UserID:   "u1",
			Language: model.LanguageEnglish,
		},
		"bad language": {
			IdeaText:  "A monthly coffee bean subscription",
			UserID:    "u1",
			Language:  model.Language("French"),
			RequestID: "req-1",
		},
	}

	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := uc.Generate(ctx, input)
			gt.Error(t, err)
			gt.True(t, errors.Is(err, model.ErrInvalidInput))
		})
	}
}

func TestGenerateDuplicateRequest(t *testing.T) {
	uc, repo, _ := setup(t)
	ctx := context.Background()

	_, err := uc.Generate(ctx, validInput("req-1"))
	gt.NoError(t, err)

	_, err = uc.Generate(ctx, validInput("req-1"))
	gt.Error(t, err)
	gt.True(t, errors.Is(err, model.ErrDuplicateSubmission))

	// Exactly one idea exists and only one generation was counted
	ideas, err := repo.ListIdeas(ctx, "u1", false)
	gt.NoError(t, err)
	gt.A(t, ideas).Length(1)

	user, err := repo.GetUser(ctx, "u1")
	gt.NoError(t, err)
	gt.Equal(t, user.APIRequestCount, 1)
}

func TestGenerateQuotaExceeded(t *testing.T) {
	uc, repo, _ := setup(t)
	ctx := context.Background()

	_, err := uc.Generate(ctx, validInput("req-1"))
	gt.NoError(t, err)
	_, err = uc.Generate(ctx, validInput("req-2"))
	gt.NoError(t, err)

	_, err = uc.Generate(ctx, validInput("req-3"))
	gt.Error(t, err)
	gt.True(t, errors.Is(err, model.ErrQuotaDailyExceeded))

	ideas, err := repo.ListIdeas(ctx, "u1", false)
	gt.NoError(t, err)
	gt.A(t, ideas).Length(2)
}

func TestGenerateFlowFailure(t *testing.T) {
	uc, repo, flw := setup(t)
	ctx := context.Background()

	flw.titleErr = model.ErrGenerationFailed

	_, err := uc.Generate(ctx, validInput("req-1"))
	gt.Error(t, err)
	gt.True(t, errors.Is(err, model.ErrGenerationFailed))

	// Nothing was persisted
	ideas, err := repo.ListIdeas(ctx, "u1", false)
	gt.NoError(t, err)
	gt.A(t, ideas).Length(0)

	user, err := repo.GetUser(ctx, "u1")
	gt.NoError(t, err)
	gt.Equal(t, user.IdeaCount, 0)
}

func TestToggleFavoriteAndList(t *testing.T) {
	uc, _, _ := setup(t)
	ctx := context.Background()

	first, err := uc.Generate(ctx, validInput("req-1"))
	gt.NoError(t, err)
	_, err = uc.Generate(ctx, validInput("req-2"))
	gt.NoError(t, err)

	gt.NoError(t, uc.ToggleFavorite(ctx, first.ID, true))

	favorited, err := uc.ListFavorited(ctx, "u1")
	gt.NoError(t, err)
	gt.A(t, favorited).Length(1)
	gt.Equal(t, favorited[0].ID, first.ID)

	all, err := uc.ListArchived(ctx, "u1")
	gt.NoError(t, err)
	gt.A(t, all).Length(2)

	gt.NoError(t, uc.ToggleFavorite(ctx, first.ID, false))
	favorited, err = uc.ListFavorited(ctx, "u1")
	gt.NoError(t, err)
	gt.A(t, favorited).Length(0)
}

func TestUpdateContent(t *testing.T) {
	uc, _, _ := setup(t)
	ctx := context.Background()

	created, err := uc.Generate(ctx, validInput("req-1"))
	gt.NoError(t, err)

	newTitle := "Edited Title"
	newOutline := "1. Revised"
	updated, err := uc.UpdateContent(ctx, created.ID, &idea.ContentUpdate{
		Title:   &newTitle,
		Outline: &newOutline,
	})
	gt.NoError(t, err)
	gt.Equal(t, updated.Title, "Edited Title")
	gt.Equal(t, updated.Outline, "1. Revised")
	gt.Equal(t, updated.Summary, created.Summary)
}

func TestUpdateContentEmptyTitle(t *testing.T) {
	uc, _, _ := setup(t)
	ctx := context.Background()

	created, err := uc.Generate(ctx, validInput("req-1"))
	gt.NoError(t, err)

	empty := "  "
	_, err = uc.UpdateContent(ctx, created.ID, &idea.ContentUpdate{Title: &empty})
	gt.Error(t, err)
	gt.True(t, errors.Is(err, model.ErrInvalidInput))
}

func TestDelete(t *testing.T) {
	uc, repo, _ := setup(t)
	ctx := context.Background()

	created, err := uc.Generate(ctx, validInput("req-1"))
	gt.NoError(t, err)

	err = uc.Delete(ctx, created.ID, "intruder")
	gt.True(t, errors.Is(err, model.ErrPermissionDenied))

	gt.NoError(t, uc.Delete(ctx, created.ID, "u1"))

	_, err = uc.Get(ctx, created.ID)
	gt.True(t, errors.Is(err, model.ErrNotFound))

	user, err := repo.GetUser(ctx, "u1")
	gt.NoError(t, err)
	gt.Equal(t, user.IdeaCount, 0)
}

func TestSuggestAndBusinessPlan(t *testing.T) {
	uc, _, _ := setup(t)
	ctx := context.Background()

	created, err := uc.Generate(ctx, validInput("req-1"))
	gt.NoError(t, err)

	suggestions, err := uc.Suggest(ctx, created.ID)
	gt.NoError(t, err)
	gt.A(t, suggestions.Strengths).Length(1)

	plan, err := uc.BusinessPlan(ctx, created.ID)
	gt.NoError(t, err)
	gt.S(t, plan.ExecutiveSummary).Contains(created.Title)

	_, err = uc.Suggest(ctx, model.IdeaID("missing"))
	gt.True(t, errors.Is(err, model.ErrNotFound))
}

func TestGenerateTimestamps(t *testing.T) {
	repo := repository.NewMemory()
	flw := &stubFlows{}
	fixed := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	usageUC := usage.New(repo, usage.WithClock(func() time.Time { return fixed }))
	uc := idea.New(repo, flw, usageUC, idea.WithClock(func() time.Time { return fixed }))

	ctx := context.Background()
	gt.NoError(t, repo.UpsertUser(ctx, &model.User{UID: "u1"}))

	created, err := uc.Generate(ctx, validInput("req-1"))
	gt.NoError(t, err)
	gt.Equal(t, created.CreatedAt, fixed)
	gt.Equal(t, created.UpdatedAt, fixed)
}
