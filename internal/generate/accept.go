package generate

import "strings"

// accepts decides whether candidate may be appended given the unmatched
// prefix. With the prefix satisfied every candidate passes. While the prefix
// is pending, the first token of the sequence may either cover the remaining
// suffix (exact or overshoot) or be a partial prefix of it; any later token
// sampled while the prefix is still pending must cover the whole remainder
// by itself. The asymmetry is deliberate and matches the shipped sampling
// policy; do not widen the subsequent-token rule without product sign-off.
func accepts(candidate Token, rem Remaining, first bool) bool {
	if rem.Satisfied() {
		return true
	}
	suffix := rem.Suffix()
	if strings.HasPrefix(candidate.Value, suffix) {
		return true
	}
	return first && strings.HasPrefix(suffix, candidate.Value)
}
