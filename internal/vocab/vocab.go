// Package vocab implements a token provider backed by a fixed weighted
// vocabulary. It exists for local runs, the HTTP service's default backend
// and tests; anything model-shaped hides behind generate.Provider, and this
// is the in-repo implementation of that capability.
package vocab

import (
	"context"
	"fmt"
	"math"
	"os"
	"strconv"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/samcharles93/prefixgen/internal/generate"
	"github.com/samcharles93/prefixgen/internal/logits"
)

// Entry is one vocabulary token with its unnormalized weight.
type Entry struct {
	Text   string  `yaml:"text"`
	Weight float64 `yaml:"weight"`
}

// File is the on-disk YAML vocabulary format.
type File struct {
	Tokens []Entry `yaml:"tokens"`
}

// Provider samples tokens from a weighted vocabulary using a logits.Sampler.
// The mutex serializes draws; the sampler's RNG and scratch buffers are not
// concurrent-safe.
type Provider struct {
	mu      sync.Mutex
	entries []Entry
	logs    []float64
	sampler *logits.Sampler
}

// New builds a Provider over entries. Entries must be non-empty and carry
// positive weights and non-empty text.
func New(entries []Entry, cfg logits.SamplerConfig) (*Provider, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("vocabulary is empty")
	}
	logs := make([]float64, len(entries))
	for i, e := range entries {
		if e.Text == "" {
			return nil, fmt.Errorf("vocabulary entry %d has empty text", i)
		}
		if e.Weight <= 0 {
			return nil, fmt.Errorf("vocabulary entry %d (%q) has non-positive weight %v", i, e.Text, e.Weight)
		}
		logs[i] = math.Log(e.Weight)
	}
	return &Provider{
		entries: entries,
		logs:    logs,
		sampler: logits.NewSampler(cfg),
	}, nil
}

// LoadEntries reads a YAML vocabulary file and returns its entries.
func LoadEntries(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse vocabulary %s: %w", path, err)
	}
	return f.Tokens, nil
}

// Load reads a YAML vocabulary file and builds a Provider from it.
func Load(path string, cfg logits.SamplerConfig) (*Provider, error) {
	entries, err := LoadEntries(path)
	if err != nil {
		return nil, err
	}
	return New(entries, cfg)
}

// FromConfig builds the sampler configuration for a Provider out of the
// engine Config's passthrough knobs.
func FromConfig(cfg generate.Config, seed int64) logits.SamplerConfig {
	sc := logits.SamplerConfig{
		Seed:        seed,
		Temperature: cfg.Temperature,
	}
	if cfg.TopK != nil {
		sc.TopK = *cfg.TopK
	}
	if cfg.TopP != nil {
		sc.TopP = *cfg.TopP
	}
	return sc
}

// NextToken draws one token. The accepted context does not condition the
// draw; a weighted vocabulary has no sequence model. ctx is still honored so
// callers can abort a long rejection-sampling run.
func (p *Provider) NextToken(ctx context.Context, accepted []generate.Token) (generate.Token, error) {
	if err := ctx.Err(); err != nil {
		return generate.Token{}, err
	}

	p.mu.Lock()
	idx, logprob := p.sampler.Sample(p.logs)
	p.mu.Unlock()
	if idx < 0 {
		return generate.Token{}, fmt.Errorf("vocabulary is empty")
	}

	return generate.Token{
		Value:   p.entries[idx].Text,
		Logprob: logprob,
		Metadata: []generate.Meta{
			{Key: "token_id", Value: strconv.Itoa(idx)},
			{Key: "source", Value: "vocab"},
		},
	}, nil
}

// Size returns the number of tokens in the vocabulary.
func (p *Provider) Size() int { return len(p.entries) }
