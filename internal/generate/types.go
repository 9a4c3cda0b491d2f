package generate

import "context"

// Meta is one metadata entry attached to a token. Entries are ordered,
// duplicate keys are allowed, and lookups return the first match.
type Meta struct {
	Key   string
	Value string
}

// Token is a single fragment of model output. Logprob is summed across a
// sequence but never interpreted here; its sign and scale belong to the
// provider. Tokens are not mutated after they are produced.
type Token struct {
	Value    string
	Logprob  float64
	Metadata []Meta
}

// Meta returns the first metadata value bound to key.
func (t Token) Meta(key string) (string, bool) {
	for _, m := range t.Metadata {
		if m.Key == key {
			return m.Value, true
		}
	}
	return "", false
}

// Provider produces the next candidate token conditioned on the tokens
// accepted so far. The provider owns everything model-specific: vocabulary,
// logits, temperature/top-p/top-k shaping and randomness. A provider that
// wants cancellation should honor ctx; the generation loop itself places no
// timeout on individual calls. Providers must return tokens with non-empty
// values; the engine does not check.
type Provider interface {
	NextToken(ctx context.Context, accepted []Token) (Token, error)
}
