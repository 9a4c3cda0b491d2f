package generate

import "context"

// sampleAccepted performs rejection sampling for one generation step: it
// draws candidates from the provider until one passes the acceptance test or
// the budget runs out. Rejected candidates are discarded; every retry is a
// fresh provider call with the same context. A provider failure aborts
// immediately as TokenizerError, with no retry.
func sampleAccepted(ctx context.Context, p Provider, accepted []Token, rem Remaining, maxAttempts int) (Token, error) {
	first := len(accepted) == 0
	for attempt := 0; attempt < maxAttempts; attempt++ {
		candidate, err := p.NextToken(ctx, accepted)
		if err != nil {
			return Token{}, &TokenizerError{Err: err}
		}
		if accepts(candidate, rem, first) {
			return candidate, nil
		}
	}
	return Token{}, &MaxAttemptsError{Attempts: maxAttempts}
}
