package generate

import (
	"context"
	"slices"
	"strings"

	"github.com/samcharles93/prefixgen/internal/logger"
)

// Generator samples token sequences whose concatenated text starts with a
// requested character-level prefix. It is synchronous and keeps no state
// across calls; distinct calls are independent except for whatever the
// provider itself retains.
type Generator struct {
	Provider Provider
	Config   Config
}

// New returns a Generator over the given provider.
func New(p Provider, cfg Config) *Generator {
	return &Generator{Provider: p, Config: cfg}
}

// Generate runs the generation loop for one request. Each step checks the
// length bound, then the stop-token rule, then recomputes the unmatched
// prefix, then rejection-samples one acceptable token. A purely-whitespace
// token arriving after the prefix is satisfied and the minimum length is met
// is appended and ends generation. On any failure the partial sequence is
// abandoned and only the error is returned.
//
// The worst-case provider call count is MaxTokens * MaxAttempts; there is no
// other bound and no cancellation beyond what the provider does with ctx.
func (g *Generator) Generate(ctx context.Context, req Request) (Sequence, error) {
	log := logger.FromContext(ctx)

	var seq Sequence
	for {
		if len(seq) >= req.MaxTokens {
			log.Debug("generation stopped at max tokens", "tokens", len(seq))
			return seq, nil
		}
		if len(seq) >= req.MinTokens && containsStop(seq, req.StopTokens) {
			log.Debug("generation stopped at stop token", "tokens", len(seq))
			return seq, nil
		}

		rem, err := remainingPrefix(req.Prefix, seq)
		if err != nil {
			return nil, err
		}

		candidate, err := sampleAccepted(ctx, g.Provider, seq, rem, g.Config.MaxAttempts)
		if err != nil {
			return nil, err
		}

		seq = append(seq, candidate)

		if rem.Satisfied() && len(seq)-1 >= req.MinTokens && strings.TrimSpace(candidate.Value) == "" {
			log.Debug("generation stopped at whitespace token", "tokens", len(seq))
			return seq, nil
		}
	}
}

func containsStop(seq Sequence, stop []string) bool {
	if len(stop) == 0 {
		return false
	}
	return slices.ContainsFunc(seq, func(t Token) bool {
		return slices.Contains(stop, t.Value)
	})
}
