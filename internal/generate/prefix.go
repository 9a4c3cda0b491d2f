package generate

import "strings"

// Remaining is the portion of the requested prefix not yet covered by
// accepted output. The zero value is pending with an empty suffix, which
// remainingPrefix never produces.
type Remaining struct {
	suffix    string
	satisfied bool
}

// Satisfied reports whether the whole prefix has been matched.
func (r Remaining) Satisfied() bool { return r.satisfied }

// Suffix returns the unmatched tail of the prefix. It is empty once the
// prefix is satisfied.
func (r Remaining) Suffix() string { return r.suffix }

// remainingPrefix computes how much of prefix is still unmatched by the
// concatenated values of accepted. It is recomputed from scratch on every
// step rather than maintained incrementally; the cost is linear in generated
// length, which the small MaxTokens keeps acceptable.
//
// Invariant: the generated text is either a prefix of the target or already
// extends past it. Anything else means an incompatible token was accepted
// and surfaces as InvalidPrefixError.
func remainingPrefix(prefix string, accepted []Token) (Remaining, error) {
	if prefix == "" {
		return Remaining{}, ErrEmptyPrefix
	}

	var b strings.Builder
	for _, t := range accepted {
		b.WriteString(t.Value)
	}
	generated := b.String()

	switch {
	case strings.HasPrefix(generated, prefix):
		return Remaining{satisfied: true}, nil
	case strings.HasPrefix(prefix, generated):
		return Remaining{suffix: prefix[len(generated):]}, nil
	default:
		return Remaining{}, &InvalidPrefixError{Generated: generated, Prefix: prefix}
	}
}
