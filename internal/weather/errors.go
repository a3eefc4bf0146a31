package weather

import (
	"errors"
	"fmt"
)

// User-facing error kinds. Messages are the Latvian strings shown by the
// dashboard; callers wrap them with %w and match with errors.Is.
var (
	ErrNetworkUnavailable = errors.New("nav interneta savienojuma")
	ErrServiceUnavailable = errors.New("laika serviss nav pieejams")
	ErrDataUnavailable    = errors.New("neizdevās iegūt pašreizējos laika apstākļus")
	ErrSearchFailed       = errors.New("neizdevās meklēt pilsētas")

	ErrLocationPermissionDenied = errors.New("atrašanās vietas piekļuve ir liegta")
	ErrLocationUnavailable      = errors.New("atrašanās vietas informācija nav pieejama")
	ErrLocationTimeout          = errors.New("atrašanās vietas pieprasījums ir novecojis")
)

// StatusError carries the HTTP status and best-effort body text of a non-2xx
// provider response. It unwraps to ErrServiceUnavailable.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%v: HTTP %d", ErrServiceUnavailable, e.StatusCode)
	}
	return fmt.Sprintf("%v: HTTP %d - %s", ErrServiceUnavailable, e.StatusCode, e.Body)
}

func (e *StatusError) Unwrap() error {
	return ErrServiceUnavailable
}
