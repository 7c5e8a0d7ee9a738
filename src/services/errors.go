package services

import (
	"errors"
	"sort"
)

var (
	// ErrNotFound is returned when a request or user id is unknown.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when the acting user is not a party to the resource.
	ErrForbidden = errors.New("forbidden")
	// ErrDuplicateRequest is returned when the ordered (sender, recipient) pair already has a request.
	ErrDuplicateRequest = errors.New("request already sent")
	// ErrInvalidAction is returned for a respond action other than accept or reject.
	ErrInvalidAction = errors.New("invalid action")
	// ErrInsufficientCredits is returned when the payer cannot cover one credit.
	ErrInsufficientCredits = errors.New("insufficient credits")
	// ErrUnauthenticated is returned when no verified identity accompanies a call.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrAlreadyDecided is returned when responding to a request that is no longer pending.
	ErrAlreadyDecided = errors.New("request already processed")
	// ErrNotAccepted is returned when settling a session on a request that was never accepted.
	ErrNotAccepted = errors.New("request not accepted")
	// ErrSelfRequest is returned when a user targets themselves.
	ErrSelfRequest = errors.New("cannot send a request to yourself")
	// ErrInvalidRating is returned for a star value outside 1..5.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
	// ErrEmailTaken is returned by Signup when the email is registered.
	ErrEmailTaken = errors.New("user already exists")
	// ErrInvalidCredentials is returned by Login on a password mismatch.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError captures field level input problems that callers can show to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}

var publicErrors = []error{
	ErrNotFound,
	ErrForbidden,
	ErrDuplicateRequest,
	ErrInvalidAction,
	ErrInsufficientCredits,
	ErrUnauthenticated,
	ErrAlreadyDecided,
	ErrNotAccepted,
	ErrSelfRequest,
	ErrInvalidRating,
	ErrEmailTaken,
	ErrInvalidCredentials,
}

// PublicMessage returns text about err that is safe to show to a client. Errors
// outside this package's taxonomy collapse to a generic message.
func PublicMessage(err error) string {
	var verr *ValidationError
	if errors.As(err, &verr) {
		fields := make([]string, 0, len(verr.FieldErrors))
		for field := range verr.FieldErrors {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		if len(fields) > 0 {
			return verr.FieldErrors[fields[0]]
		}
		return verr.Error()
	}
	for _, known := range publicErrors {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return "Server error"
}
