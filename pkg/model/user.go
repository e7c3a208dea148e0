package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
)

type Role string

const (
	RoleFree Role = "free"
	RolePaid Role = "paid"
)

// Validate checks if the role is valid
func (r Role) Validate() error {
	switch r {
	case RoleFree, RolePaid:
		return nil
	default:
		return goerr.Wrap(ErrInvalidInput, "invalid role", goerr.V("role", r))
	}
}

// User is the per-user record holding profile fields, the plan role and the
// usage counters consulted by quota enforcement. IdeaCount tracks the number
// of non-deleted ideas owned by the user; APIRequestCount counts generations
// within the rolling window anchored at LastAPIRequestAt.
type User struct {
	UID              string     `firestore:"uid" json:"uid"`
	Email            string     `firestore:"email" json:"email"`
	DisplayName      string     `firestore:"displayName" json:"displayName"`
	PhotoURL         string     `firestore:"photoURL" json:"photoURL"`
	Role             Role       `firestore:"role" json:"role"`
	IdeaCount        int        `firestore:"ideaCount" json:"ideaCount"`
	APIRequestCount  int        `firestore:"apiRequestCount" json:"apiRequestCount"`
	LastAPIRequestAt *time.Time `firestore:"lastApiRequestDate" json:"lastApiRequestDate"`
	CreatedAt        time.Time  `firestore:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time  `firestore:"updatedAt" json:"updatedAt"`
}

// EffectiveRequestCount returns the usage counted against the current rolling
// window: zero if no request was ever counted or the last one is older than
// the window, otherwise the stored counter.
func (u *User) EffectiveRequestCount(now time.Time, window time.Duration) int {
	if u.LastAPIRequestAt == nil {
		return 0
	}
	if now.Sub(*u.LastAPIRequestAt) > window {
		return 0
	}
	return u.APIRequestCount
}

// Clone returns a copy of the user
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	copied := *u
	if u.LastAPIRequestAt != nil {
		t := *u.LastAPIRequestAt
		copied.LastAPIRequestAt = &t
	}
	return &copied
}

// Usage is the read-only projection returned to the client for quota display.
// DailyLeft and IdeasLeft are nil for paid users, meaning unlimited.
type Usage struct {
	Role      Role `json:"role"`
	DailyLeft *int `json:"dailyLeft"`
	IdeasLeft *int `json:"ideasLeft"`
}
