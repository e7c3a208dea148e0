package usage

import (
	"context"

	"github.com/daper-app/daper/pkg/model"
)

// Get returns the read-only usage projection for display. It mirrors the
// rolling-window math of Consume without mutating anything: remaining values
// are nil for paid users (unlimited) and floored at zero for free users.
func (u *UseCase) Get(ctx context.Context, uid string) (*model.Usage, error) {
	user, err := u.repo.GetUser(ctx, uid)
	if err != nil {
		return nil, err
	}

	if user.Role == model.RolePaid {
		return &model.Usage{Role: model.RolePaid}, nil
	}

	dailyLeft := u.limits.FreeDailyLimit - user.EffectiveRequestCount(u.now(), u.limits.Window)
	if dailyLeft < 0 {
		dailyLeft = 0
	}
	ideasLeft := u.limits.FreeIdeaLimit - user.IdeaCount
	if ideasLeft < 0 {
		ideasLeft = 0
	}

	return &model.Usage{
		Role:      model.RoleFree,
		DailyLeft: &dailyLeft,
		IdeasLeft: &ideasLeft,
	}, nil
}
