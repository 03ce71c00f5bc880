package errs

import "errors"

// Domain-specific sentinel errors shared across usecase layers
var (
	// Ruleset errors
	ErrRulesetNotFound   = errors.New("ruleset not found")
	ErrSaveInFlight      = errors.New("save already in flight for this ruleset")
	ErrRulesetValidation = errors.New("ruleset validation failed")

	// Event errors
	ErrEventNotFound = errors.New("event not found")

	// Session errors
	ErrSessionNotFound   = errors.New("session not found")
	ErrInvalidTransition = errors.New("invalid session transition")
	ErrSlotConflict      = errors.New("slot no longer available")

	// Idempotency errors
	ErrIdempotencyInProgress = errors.New("idempotency in progress")
	ErrIdempotencyCheck      = errors.New("idempotency check failed")

	// Auth errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("operation not allowed for this user")

	// Configuration errors
	ErrInvalidTimezone = errors.New("invalid timezone identifier")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
