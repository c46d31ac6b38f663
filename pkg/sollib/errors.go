package sollib

import (
	"errors"
	"fmt"
)

// Sentinel errors for the refresh pipeline.
var (
	// ErrNotAuthenticated is returned when no refresh token is stored.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrNoConnectivity is returned when the network is unreachable at
	// refresh time. It is not terminal; the orchestrator retries.
	ErrNoConnectivity = errors.New("no connectivity")
)

// AuthError indicates the token exchange was rejected, timed out or
// returned a malformed body.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("token exchange failed: %s", e.Err.Error())
}

func (e *AuthError) Unwrap() error { return e.Err }

// IncompleteProfileError indicates the identity response is missing the
// person or school-year id.
type IncompleteProfileError struct {
	PersonID     string
	SchoolYearID string
}

func (e *IncompleteProfileError) Error() string {
	return "identity response missing required ids"
}

// FetchError indicates the timetable or identity request failed or
// timed out.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s failed: %s", e.Op, e.Err.Error())
}

func (e *FetchError) Unwrap() error { return e.Err }

// Localized user-facing messages, matching what the widget displays.
const (
	msgNotAuthenticated  = "Nepřihlášen"
	msgAuthError         = "Chyba přihlášení"
	msgIncompleteProfile = "Chybí data"
	msgFetchError        = "Chyba rozvrhu"
	msgNoConnectivity    = "Bez připojení"
)

// UserMessage maps a refresh error to the short localized message shown
// by presentation layers. Unknown errors fall back to a generic prefix
// with the raw error text.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var (
		authErr    *AuthError
		profileErr *IncompleteProfileError
		fetchErr   *FetchError
	)
	switch {
	case errors.Is(err, ErrNotAuthenticated):
		return msgNotAuthenticated
	case errors.Is(err, ErrNoConnectivity):
		return msgNoConnectivity
	case errors.As(err, &authErr):
		return msgAuthError
	case errors.As(err, &profileErr):
		return msgIncompleteProfile
	case errors.As(err, &fetchErr):
		return msgFetchError
	default:
		return "Chyba: " + err.Error()
	}
}
