package api

import (
	"github.com/samcharles93/prefixgen/internal/generate"
	"github.com/samcharles93/prefixgen/internal/vocab"
)

// ProviderFactory builds a token provider for one completion call. Each call
// gets a fresh provider so requests never share sampler state.
type ProviderFactory interface {
	NewProvider(cfg generate.Config, seed int64) (generate.Provider, error)
}

// VocabFactory is the default factory: providers sampling a fixed weighted
// vocabulary with the request's temperature/top-p/top-k applied.
type VocabFactory struct {
	Entries []vocab.Entry
}

func (f VocabFactory) NewProvider(cfg generate.Config, seed int64) (generate.Provider, error) {
	return vocab.New(f.Entries, vocab.FromConfig(cfg, seed))
}

var _ ProviderFactory = VocabFactory{}
