package confirm

import (
	"errors"
	"fmt"
)

// Func is a user-provided callback for handling confirmations.
type Func func(prompt string) (bool, error)

// ErrConfirmRequired indicates manual confirmation is needed to proceed.
var ErrConfirmRequired = errors.New("confirmation required")

// Require asks fn to confirm action. It returns an error wrapping
// ErrConfirmRequired when fn is nil or the user declines.
func Require(fn Func, action, detail string) error {
	if fn == nil {
		return fmt.Errorf("%w: %s", ErrConfirmRequired, action)
	}
	prompt := action
	if detail != "" {
		prompt = fmt.Sprintf("%s\n%s", detail, action)
	}
	ok, err := fn(prompt)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrConfirmRequired, action)
	}
	return nil
}
