package generate

import (
	"errors"
	"fmt"
)

// ErrEmptyPrefix is returned when a generation call is made with an empty
// prefix. The check gates every step, including the first.
var ErrEmptyPrefix = errors.New("prefix must not be empty")

// MaxAttemptsError reports that one generation step exhausted its retry
// budget without the provider producing an acceptable token. Attempts is the
// configured budget, not the remaining count.
type MaxAttemptsError struct {
	Attempts int
}

func (e *MaxAttemptsError) Error() string {
	return fmt.Sprintf("no acceptable token after %d attempts", e.Attempts)
}

// InvalidPrefixError reports that the accepted text is neither a prefix of
// the requested prefix nor an extension of it. This is a guard against an
// acceptance bug letting an incompatible token through; it should be
// unreachable in correct operation.
type InvalidPrefixError struct {
	Generated string
	Prefix    string
}

func (e *InvalidPrefixError) Error() string {
	return fmt.Sprintf("generated text %q is incompatible with prefix %q", e.Generated, e.Prefix)
}

// TokenizerError wraps a failure from the token provider. Provider failures
// are never retried.
type TokenizerError struct {
	Err error
}

func (e *TokenizerError) Error() string {
	return "tokenizer: " + e.Err.Error()
}

func (e *TokenizerError) Unwrap() error {
	return e.Err
}
