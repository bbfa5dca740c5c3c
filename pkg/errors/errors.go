package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeNetwork represents timeouts and aborted connections
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeConnection represents refused connections and DNS failures
	ErrorTypeConnection ErrorType = "connection"
	// ErrorTypeHTTPStatus represents an unexpected HTTP status code
	ErrorTypeHTTPStatus ErrorType = "http_status"
	// ErrorTypeParsing represents HTML or JSON parsing errors
	ErrorTypeParsing ErrorType = "parsing"
	// ErrorTypeRateLimit represents rate limiting errors
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypeBrowser represents headless browser failures
	ErrorTypeBrowser ErrorType = "browser"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

var (
	// ErrNotApplicable is returned by a strategy that has nothing to do in the current setup.
	ErrNotApplicable = stderrors.New("strategy not applicable")
	// ErrNoTrips is returned when every strategy came back empty or failed.
	ErrNoTrips = stderrors.New("no trips collected")
)

// CollectorError represents a collection failure with its source context
type CollectorError struct {
	Type       ErrorType
	Source     string
	Message    string
	StatusCode int
	Err        error
	Time       time.Time
}

// Error implements the error interface
func (e *CollectorError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Source, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Source, e.Message)
}

// Unwrap returns the underlying error
func (e *CollectorError) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if the error is retryable
func (e *CollectorError) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeNetwork:
		return true
	case ErrorTypeHTTPStatus:
		return e.StatusCode >= 500
	default:
		return false
	}
}

// New creates a new CollectorError
func New(errType ErrorType, source, message string, err error) *CollectorError {
	return &CollectorError{
		Type:    errType,
		Source:  source,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// NewNetwork creates a new network error
func NewNetwork(source, message string, err error) *CollectorError {
	return New(ErrorTypeNetwork, source, message, err)
}

// NewConnection creates a new non-retryable connection error
func NewConnection(source, message string, err error) *CollectorError {
	return New(ErrorTypeConnection, source, message, err)
}

// NewHTTPStatus creates an error for an unexpected response status
func NewHTTPStatus(source string, statusCode int) *CollectorError {
	e := New(ErrorTypeHTTPStatus, source, fmt.Sprintf("unexpected status code: %d", statusCode), nil)
	e.StatusCode = statusCode
	return e
}

// NewParsing creates a new parsing error
func NewParsing(source, message string, err error) *CollectorError {
	return New(ErrorTypeParsing, source, message, err)
}

// NewRateLimit creates a new rate limit error
func NewRateLimit(source string, duration time.Duration) *CollectorError {
	return New(ErrorTypeRateLimit, source, fmt.Sprintf("rate limited for %v", duration), nil)
}

// NewBrowser creates a new browser error
func NewBrowser(source, message string, err error) *CollectorError {
	return New(ErrorTypeBrowser, source, message, err)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *CollectorError {
	return New(ErrorTypeConfiguration, "", message, err)
}

// IsRetryable reports whether err is worth another attempt: a CollectorError
// that says so, a deadline, or a net.Error timeout.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var ce *CollectorError
	if stderrors.As(err, &ce) {
		return ce.IsRetryable()
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return stderrors.As(err, &ne) && ne.Timeout()
}

// IsType reports whether err carries a CollectorError of the given type
func IsType(err error, t ErrorType) bool {
	var ce *CollectorError
	return stderrors.As(err, &ce) && ce.Type == t
}
