package domain

import "errors"

// Error taxonomy surfaced at handler boundaries. Each flow catches one of
// these and renders a single human-readable message; nothing is retried.
var (
	ErrAuthentication   = errors.New("you must be signed in")        // No active session where one is required
	ErrDuplicateAccount = errors.New("account already registered")   // Signup against an existing email
	ErrUpload           = errors.New("failed to upload image")       // Any single image upload failure, aborts the submission
	ErrNotFound         = errors.New("listing not found")            // Edit/detail target absent
	ErrUnexpected       = errors.New("an unexpected error occurred") // Catch-all
)
