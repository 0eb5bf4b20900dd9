package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies the result of one logical call.
type Kind int

const (
	KindSuccess Kind = iota + 1
	KindNoContent
	// KindUnauthorized marks a first 401 that starts the refresh cycle. Execute
	// never returns it: a 401 after a refresh is reported as KindHTTPError.
	KindUnauthorized
	KindRefreshFailed
	KindHTTPError
	KindParseFailure
	KindTransportFailure
)

func (kind Kind) String() string {
	switch kind {
	case KindSuccess:
		return "success"
	case KindNoContent:
		return "no_content"
	case KindUnauthorized:
		return "unauthorized"
	case KindRefreshFailed:
		return "refresh_failed"
	case KindHTTPError:
		return "http_error"
	case KindParseFailure:
		return "parse_failure"
	case KindTransportFailure:
		return "transport_failure"
	default:
		return "unknown"
	}
}

var (
	ErrRefreshFailed     = errors.New("session refresh failed")
	ErrMalformedResponse = errors.New("malformed response body")
	ErrTransport         = errors.New("request transport failed")
	ErrNoContent         = errors.New("response has no content")
)

const genericErrorMessage = "Something went wrong"

// StatusError is the error form of a KindHTTPError outcome.
type StatusError struct {
	Status  int
	Message string
}

func (err *StatusError) Error() string {
	return fmt.Sprintf("api error %d: %s", err.Status, err.Message)
}

// Outcome is produced once per Execute call and is never retried further.
type Outcome struct {
	Kind    Kind
	Status  int
	Payload []byte
	Message string
	// Redirect is the location the application shell should navigate to. It
	// is only set for KindRefreshFailed.
	Redirect string
	Err      error
	// Attempts counts requests sent to the target endpoint (1 or 2).
	Attempts  int
	Refreshed bool
}

func (outcome Outcome) OK() bool {
	return outcome.Kind == KindSuccess || outcome.Kind == KindNoContent
}

// AsError converts a failed outcome into an error; successful outcomes yield nil.
func (outcome Outcome) AsError() error {
	switch outcome.Kind {
	case KindSuccess, KindNoContent:
		return nil
	case KindRefreshFailed:
		return ErrRefreshFailed
	case KindHTTPError, KindUnauthorized:
		return &StatusError{Status: outcome.Status, Message: outcome.Message}
	case KindParseFailure:
		return fmt.Errorf("%w: %v", ErrMalformedResponse, outcome.Err)
	default:
		return fmt.Errorf("%w: %v", ErrTransport, outcome.Err)
	}
}

// Decode unmarshals a JSON success payload into target.
func (outcome Outcome) Decode(target any) error {
	if err := outcome.AsError(); err != nil {
		return err
	}
	if outcome.Kind == KindNoContent {
		return ErrNoContent
	}
	if err := json.Unmarshal(outcome.Payload, target); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

// Decode is the generic form of Outcome.Decode.
func Decode[T any](outcome Outcome) (T, error) {
	var value T
	err := outcome.Decode(&value)
	return value, err
}

func classify(status int, body []byte, kind ResponseKind) Outcome {
	switch {
	case status == http.StatusUnauthorized:
		return Outcome{Kind: KindUnauthorized, Status: status, Message: errorMessage(body)}
	case status >= 200 && status < 300:
		if status == http.StatusNoContent || status == http.StatusResetContent {
			return Outcome{Kind: KindNoContent, Status: status}
		}
		if kind == ResponseRaw {
			return Outcome{Kind: KindSuccess, Status: status, Payload: body}
		}
		if !json.Valid(body) {
			return Outcome{Kind: KindParseFailure, Status: status, Message: genericErrorMessage, Err: ErrMalformedResponse}
		}
		return Outcome{Kind: KindSuccess, Status: status, Payload: body}
	default:
		return Outcome{Kind: KindHTTPError, Status: status, Message: errorMessage(body)}
	}
}
