package generate

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

// cycleProvider returns candidates in order, repeating the last one forever.
func cycleProvider(values ...string) Provider {
	i := 0
	return providerFunc(func(_ context.Context, _ []Token) (Token, error) {
		v := values[min(i, len(values)-1)]
		i++
		return Token{Value: v, Logprob: -1}, nil
	})
}

func newTestGenerator(p Provider) *Generator {
	return New(p, ResolveConfig(ConfigOptions{}))
}

func TestGenerateEmptyPrefix(t *testing.T) {
	t.Parallel()

	g := newTestGenerator(cycleProvider("def"))
	_, err := g.Generate(context.Background(), ResolveRequest(RequestOptions{Prefix: ""}))
	if !errors.Is(err, ErrEmptyPrefix) {
		t.Fatalf("expected ErrEmptyPrefix, got %v", err)
	}
}

func TestGenerateExactFirstToken(t *testing.T) {
	t.Parallel()

	maxTokens := 3
	g := newTestGenerator(cycleProvider("def", "ault", "s"))
	seq, err := g.Generate(context.Background(), ResolveRequest(RequestOptions{
		Prefix:    "def",
		MaxTokens: &maxTokens,
	}))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got := seq.Text(); got != "defaults" {
		t.Fatalf("text: got %q, want %q", got, "defaults")
	}
	if seq[0].Value != "def" {
		t.Fatalf("first token: got %q, want %q", seq[0].Value, "def")
	}
	if seq.Len() != maxTokens {
		t.Fatalf("length: got %d, want %d", seq.Len(), maxTokens)
	}
}

func TestGenerateOvershootFirstToken(t *testing.T) {
	t.Parallel()

	maxTokens := 1
	g := newTestGenerator(cycleProvider("def"))
	seq, err := g.Generate(context.Background(), ResolveRequest(RequestOptions{
		Prefix:    "de",
		MaxTokens: &maxTokens,
	}))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if seq.Text() != "def" {
		t.Fatalf("text: got %q, want %q", seq.Text(), "def")
	}
}

func TestGenerateIncompatibleVocabulary(t *testing.T) {
	t.Parallel()

	attempts := 1000
	g := New(cycleProvider("xyz"), ResolveConfig(ConfigOptions{MaxAttempts: &attempts}))
	_, err := g.Generate(context.Background(), ResolveRequest(RequestOptions{Prefix: "abc"}))

	var exhausted *MaxAttemptsError
	if !errors.As(err, &exhausted) {
		t.Fatalf("expected MaxAttemptsError, got %v", err)
	}
	if exhausted.Attempts != 1000 {
		t.Fatalf("attempts: got %d, want 1000", exhausted.Attempts)
	}
}

func TestGenerateStopToken(t *testing.T) {
	t.Parallel()

	g := newTestGenerator(cycleProvider("def", " main", ":", "body"))
	seq, err := g.Generate(context.Background(), ResolveRequest(RequestOptions{
		Prefix:     "def",
		StopTokens: []string{":"},
	}))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if seq.Len() < DefaultMinTokens {
		t.Fatalf("length %d below minimum", seq.Len())
	}
	if last := seq[seq.Len()-1].Value; last != ":" {
		t.Fatalf("last token: got %q, want %q", last, ":")
	}
}

func TestGenerateStopTokenRespectsMinTokens(t *testing.T) {
	t.Parallel()

	minTokens := 3
	g := newTestGenerator(cycleProvider(":", "a", "b", "c"))
	seq, err := g.Generate(context.Background(), ResolveRequest(RequestOptions{
		Prefix:     ":",
		MinTokens:  &minTokens,
		StopTokens: []string{":"},
	}))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if seq.Len() < minTokens {
		t.Fatalf("length: got %d, want >= %d", seq.Len(), minTokens)
	}
}

func TestGenerateMaxTokensBound(t *testing.T) {
	t.Parallel()

	maxTokens := 3
	g := newTestGenerator(cycleProvider("a"))
	seq, err := g.Generate(context.Background(), ResolveRequest(RequestOptions{
		Prefix:    "a",
		MaxTokens: &maxTokens,
	}))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if seq.Len() != 3 {
		t.Fatalf("length: got %d, want exactly 3", seq.Len())
	}
}

func TestGenerateWhitespaceTerminates(t *testing.T) {
	t.Parallel()

	g := newTestGenerator(cycleProvider("def", " \t ", "more"))
	seq, err := g.Generate(context.Background(), ResolveRequest(RequestOptions{Prefix: "def"}))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	// The whitespace token is appended before generation ends.
	if seq.Len() != 2 {
		t.Fatalf("length: got %d, want 2", seq.Len())
	}
	if seq[1].Value != " \t " {
		t.Fatalf("terminator: got %q", seq[1].Value)
	}
}

func TestGenerateWhitespaceKeptWhilePending(t *testing.T) {
	t.Parallel()

	// A whitespace token that the prefix itself demands is not a terminator.
	maxTokens := 2
	g := newTestGenerator(cycleProvider(" ", "x"))
	seq, err := g.Generate(context.Background(), ResolveRequest(RequestOptions{
		Prefix:    " x",
		MaxTokens: &maxTokens,
	}))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if seq.Text() != " x" {
		t.Fatalf("text: got %q, want %q", seq.Text(), " x")
	}
}

func TestGeneratePrefixProperty(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		prefix string
		vocab  []string
	}{
		{"token-boundary", "def", []string{"def", " main", " "}},
		{"mid-token", "de", []string{"def", " "}},
		{"multi-token", "def mai", []string{"def", " main", " "}},
		{"single-char-steps", "ab", []string{"a", "b", " "}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			g := newTestGenerator(cycleProvider(tc.vocab...))
			seq, err := g.Generate(context.Background(), ResolveRequest(RequestOptions{Prefix: tc.prefix}))
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}
			if text := seq.Text(); len(text) < len(tc.prefix) || text[:len(tc.prefix)] != tc.prefix {
				t.Fatalf("text %q does not start with prefix %q", text, tc.prefix)
			}
		})
	}
}

func TestGenerateDeterministic(t *testing.T) {
	t.Parallel()

	// Same context in, same candidate out: the engine adds no randomness of
	// its own, so two identical calls agree exactly.
	deterministic := func() Provider {
		vocab := []string{"def", " main", "(", ")", ":"}
		return providerFunc(func(_ context.Context, accepted []Token) (Token, error) {
			return Token{Value: vocab[len(accepted)%len(vocab)], Logprob: -0.5}, nil
		})
	}

	req := ResolveRequest(RequestOptions{Prefix: "def", StopTokens: []string{":"}})
	first, err := New(deterministic(), ResolveConfig(ConfigOptions{})).Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := New(deterministic(), ResolveConfig(ConfigOptions{})).Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("results differ:\n%v\n%v", first, second)
	}
}

func TestGenerateProviderErrorAbandonsSequence(t *testing.T) {
	t.Parallel()

	calls := 0
	p := providerFunc(func(_ context.Context, _ []Token) (Token, error) {
		calls++
		if calls > 2 {
			return Token{}, errors.New("backend gone")
		}
		return Token{Value: "a"}, nil
	})

	seq, err := New(p, ResolveConfig(ConfigOptions{})).Generate(context.Background(),
		ResolveRequest(RequestOptions{Prefix: "a"}))
	var tokErr *TokenizerError
	if !errors.As(err, &tokErr) {
		t.Fatalf("expected TokenizerError, got %v", err)
	}
	if seq != nil {
		t.Fatalf("expected no partial sequence, got %v", seq)
	}
}
