package generate

import "strings"

// Sequence is the ordered run of tokens accepted by one generation call.
type Sequence []Token

// Text returns the concatenation of all token values in generation order.
func (s Sequence) Text() string {
	var b strings.Builder
	for _, t := range s {
		b.WriteString(t.Value)
	}
	return b.String()
}

// Logprob returns the sum of the per-token log-probabilities. The scale is
// whatever the provider used; the value is accumulated, never interpreted.
func (s Sequence) Logprob() float64 {
	var sum float64
	for _, t := range s {
		sum += t.Logprob
	}
	return sum
}

// Len returns the number of tokens in the sequence.
func (s Sequence) Len() int { return len(s) }

// MetaValues collects, in generation order, the first metadata value bound
// to key on each token that carries it. Tokens without the key are skipped.
func (s Sequence) MetaValues(key string) []string {
	var out []string
	for _, t := range s {
		if v, ok := t.Meta(key); ok {
			out = append(out, v)
		}
	}
	return out
}
