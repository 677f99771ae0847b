package errors

import (
	stderrors "errors"

	"github.com/vango-dev/vbind/pkg/reactive"
)

// FromSet converts an error returned by a data write into a BindError.
// Unknown keys map to E001, failures that are all detached targets to E002,
// and any other refresh failure to E003.
func FromSet(err error) *BindError {
	if err == nil {
		return nil
	}
	return FromError(err, setCode(err))
}

func setCode(err error) string {
	switch {
	case stderrors.Is(err, reactive.ErrUnknownKey):
		return "E001"
	case allDetached(err):
		return "E002"
	default:
		return "E003"
	}
}

func allDetached(err error) bool {
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		errs := j.Unwrap()
		for _, e := range errs {
			if !allDetached(e) {
				return false
			}
		}
		return len(errs) > 0
	}
	return stderrors.Is(err, reactive.ErrMissingTarget)
}
