package usage

import (
	"context"

	"github.com/daper-app/daper/pkg/model"
	"github.com/m-mizutani/goerr/v2"
)

// check applies the free-tier limits to a user snapshot at now. Paid users
// always pass.
func (u *UseCase) check(user *model.User) error {
	if user.Role == model.RolePaid {
		return nil
	}

	if user.IdeaCount >= u.limits.FreeIdeaLimit {
		return goerr.Wrap(model.ErrQuotaIdeasExceeded, "saved idea limit reached",
			goerr.V("uid", user.UID), goerr.V("limit", u.limits.FreeIdeaLimit))
	}

	if user.EffectiveRequestCount(u.now(), u.limits.Window) >= u.limits.FreeDailyLimit {
		return goerr.Wrap(model.ErrQuotaDailyExceeded, "daily generation limit reached",
			goerr.V("uid", user.UID), goerr.V("limit", u.limits.FreeDailyLimit))
	}

	return nil
}

// Consume counts one generation against the user's rolling window. The plain
// read up front is only a cheap early rejection: the transaction re-reads the
// user and re-applies the same rolling-window check, and is the sole authority
// for the increment. Usage is recorded for paid users too; limits just never
// gate them.
func (u *UseCase) Consume(ctx context.Context, uid string) error {
	user, err := u.repo.GetUser(ctx, uid)
	if err != nil {
		return err
	}
	if err := u.check(user); err != nil {
		return err
	}

	return u.repo.UpdateUser(ctx, uid, func(user *model.User) error {
		if err := u.check(user); err != nil {
			return err
		}

		now := u.now()
		user.APIRequestCount = user.EffectiveRequestCount(now, u.limits.Window) + 1
		user.LastAPIRequestAt = &now
		return nil
	})
}
