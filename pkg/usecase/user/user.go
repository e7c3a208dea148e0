package user

import (
	"context"
	"strings"

	"github.com/daper-app/daper/pkg/model"
	"github.com/daper-app/daper/pkg/repository"
	"github.com/m-mizutani/goerr/v2"
)

// UseCase provides the login-time user lifecycle
type UseCase struct {
	repo repository.Repository
}

// New creates a new user UseCase instance
func New(repo repository.Repository) *UseCase {
	return &UseCase{repo: repo}
}

// Profile is the identity-provider snapshot sent on every login
type Profile struct {
	UID         string
	Email       string
	DisplayName string
	PhotoURL    string
}

// Upsert is called on every login: the first login creates the record with
// the free role and zeroed counters, later logins refresh the profile fields
// only.
func (u *UseCase) Upsert(ctx context.Context, profile *Profile) error {
	if strings.TrimSpace(profile.UID) == "" {
		return goerr.Wrap(model.ErrInvalidInput, "user UID is required")
	}

	return u.repo.UpsertUser(ctx, &model.User{
		UID:         profile.UID,
		Email:       profile.Email,
		DisplayName: profile.DisplayName,
		PhotoURL:    profile.PhotoURL,
	})
}

// Get retrieves the user record
func (u *UseCase) Get(ctx context.Context, uid string) (*model.User, error) {
	return u.repo.GetUser(ctx, uid)
}
