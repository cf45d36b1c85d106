package main

import (
	stderrors "errors"

	"github.com/cockroachdb/errors"

	"github.com/arloliu/ttfs/errs"
)

// withHint attaches a user-facing hint to the library errors a user can act on.
// Errors that already carry a hint are returned unchanged.
func withHint(err error) error {
	switch {
	case err == nil:
		return nil
	case len(errors.GetAllHints(err)) > 0:
		return err
	case stderrors.Is(err, errs.ErrNotFound):
		return errors.WithHint(err, "check the --ranges path (or TTFS_RANGES); SQLite stores are given as sqlite://PATH")
	case stderrors.Is(err, errs.ErrInvalidFormat):
		return errors.WithHint(err, "a range source maps every feature name to a [min, max] pair of numbers")
	case stderrors.Is(err, errs.ErrMissingFeature):
		return errors.WithHint(err, "every feature with a non-constant range needs a value; --skip-invalid drops such records instead")
	case stderrors.Is(err, errs.ErrInvalidConfig):
		return errors.WithHint(err, "max-delay and gamma must be positive, rings at least 1, jitter in [0, 1)")
	case stderrors.Is(err, errs.ErrInvalidMagicNumber),
		stderrors.Is(err, errs.ErrInvalidHeaderSize),
		stderrors.Is(err, errs.ErrInvalidHeaderFlags),
		stderrors.Is(err, errs.ErrInvalidPayload),
		stderrors.Is(err, errs.ErrChecksumMismatch):
		return errors.WithHint(err, "the input is not an intact spike blob; blobs are written by `ttfsenc encode --format blob`")
	default:
		return err
	}
}
