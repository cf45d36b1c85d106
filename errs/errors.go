// Package errs defines the sentinel and typed errors returned by ttfs packages.
//
// Callers should compare with errors.Is against the sentinel values and use
// errors.As to retrieve the typed errors carrying context:
//
//	reg, err := ranges.Load("ranges.json")
//	if errors.Is(err, errs.ErrNotFound) {
//	    // range source is missing
//	}
//
//	var mf *errs.MissingFeatureError
//	if errors.As(err, &mf) {
//	    log.Printf("record lacks %q", mf.Feature)
//	}
package errs

import (
	"errors"
	"fmt"
)

// Range registry errors.
var (
	ErrNotFound      = errors.New("range source not found")
	ErrInvalidFormat = errors.New("invalid range source format")
)

// Encoder errors.
var (
	ErrInvalidConfig  = errors.New("invalid encoder configuration")
	ErrMissingFeature = errors.New("record is missing a required feature")
	ErrVectorLength   = errors.New("feature vector length does not match feature count")
)

// Spike blob errors.
var (
	ErrInvalidHeaderSize  = errors.New("invalid header size")
	ErrInvalidMagicNumber = errors.New("invalid magic number")
	ErrInvalidHeaderFlags = errors.New("invalid header flags")
	ErrInvalidPayload     = errors.New("invalid payload")
	ErrChecksumMismatch   = errors.New("payload checksum mismatch")
	ErrNoRecordsAdded     = errors.New("no records added")
	ErrTooManyRecords     = errors.New("too many records")
	ErrChannelOutOfRange  = errors.New("channel id out of range")
	ErrEncoderFinished    = errors.New("encoder already finished")
)

// NotFoundError reports a range source that does not exist.
type NotFoundError struct {
	Path  string
	cause error
}

// NewNotFoundError creates a NotFoundError for path wrapping the underlying cause.
func NewNotFoundError(path string, cause error) *NotFoundError {
	return &NotFoundError{Path: path, cause: cause}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("range source not found: %s", e.Path)
}

func (e *NotFoundError) Unwrap() error { return e.cause }

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// FormatError reports a range source, or a single entry of it, that cannot be
// interpreted as feature name -> [min, max].
//
// Feature is empty when the source as a whole is unparseable.
type FormatError struct {
	Source  string
	Feature string
	Reason  string
	cause   error
}

// NewFormatError creates a FormatError.
func NewFormatError(source, feature, reason string, cause error) *FormatError {
	return &FormatError{Source: source, Feature: feature, Reason: reason, cause: cause}
}

func (e *FormatError) Error() string {
	if e.Feature == "" {
		return fmt.Sprintf("invalid range source %s: %s", e.Source, e.Reason)
	}

	return fmt.Sprintf("invalid range entry %q in %s: %s", e.Feature, e.Source, e.Reason)
}

func (e *FormatError) Unwrap() error { return e.cause }

func (e *FormatError) Is(target error) bool { return target == ErrInvalidFormat }

// MissingFeatureError reports a record without a value for a feature the encoder reads.
type MissingFeatureError struct {
	Feature string
}

func (e *MissingFeatureError) Error() string {
	return fmt.Sprintf("record is missing feature %q", e.Feature)
}

func (e *MissingFeatureError) Is(target error) bool { return target == ErrMissingFeature }
