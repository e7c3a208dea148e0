package model

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for expected business outcomes. Callers branch with errors.Is;
// the HTTP layer maps each of these to a status code and a user-facing message.
var (
	ErrInvalidInput        = goerr.New("invalid input")
	ErrNotFound            = goerr.New("not found")
	ErrPermissionDenied    = goerr.New("permission denied")
	ErrDuplicateSubmission = goerr.New("duplicate submission")
	ErrQuotaIdeasExceeded  = goerr.New("saved idea limit reached")
	ErrQuotaDailyExceeded  = goerr.New("daily generation limit reached")
	ErrGenerationFailed    = goerr.New("generation failed")
	ErrCannotDeleteRoot    = goerr.New("root node cannot be deleted")
	ErrPathMismatch        = goerr.New("path does not start at the root node")
)
