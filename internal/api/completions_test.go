package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/labstack/echo/v5"

	"github.com/samcharles93/prefixgen/internal/generate"
	"github.com/samcharles93/prefixgen/internal/logger"
	"github.com/samcharles93/prefixgen/internal/vocab"
)

type factoryFunc func(cfg generate.Config, seed int64) (generate.Provider, error)

func (f factoryFunc) NewProvider(cfg generate.Config, seed int64) (generate.Provider, error) {
	return f(cfg, seed)
}

type providerFunc func(ctx context.Context, accepted []generate.Token) (generate.Token, error)

func (f providerFunc) NextToken(ctx context.Context, accepted []generate.Token) (generate.Token, error) {
	return f(ctx, accepted)
}

// cycleFactory yields providers that emit values in order, repeating the
// last one.
func cycleFactory(values ...string) ProviderFactory {
	return factoryFunc(func(_ generate.Config, _ int64) (generate.Provider, error) {
		i := 0
		return providerFunc(func(_ context.Context, _ []generate.Token) (generate.Token, error) {
			v := values[min(i, len(values)-1)]
			i++
			return generate.Token{Value: v, Logprob: -0.5, Metadata: []generate.Meta{{Key: "source", Value: "test"}}}, nil
		}), nil
	})
}

func newTestEcho(factory ProviderFactory, mw ...echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	for _, m := range mw {
		e.Use(m)
	}
	NewServer(factory, logger.Discard()).Register(e)
	return e
}

func doJSON(t *testing.T, e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestCompletionSuccess(t *testing.T) {
	t.Parallel()

	e := newTestEcho(cycleFactory("def", " main", " "))
	rec := doJSON(t, e, http.MethodPost, "/v1/completions", `{"prefix":"def"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d body=%s", rec.Code, rec.Body.String())
	}

	var resp CompletionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !strings.HasPrefix(resp.ID, "cmpl-") {
		t.Fatalf("id: got %q", resp.ID)
	}
	if resp.Object != "text_completion" {
		t.Fatalf("object: got %q", resp.Object)
	}
	if !strings.HasPrefix(resp.Text, "def") {
		t.Fatalf("text %q does not start with prefix", resp.Text)
	}
	if resp.TokenCount != len(resp.Tokens) {
		t.Fatalf("token_count %d does not match tokens %d", resp.TokenCount, len(resp.Tokens))
	}
	if resp.FinishReason != "stop" {
		t.Fatalf("finish_reason: got %q, want stop", resp.FinishReason)
	}
	if len(resp.Tokens) == 0 || len(resp.Tokens[0].Metadata) == 0 {
		t.Fatalf("expected token metadata, got %+v", resp.Tokens)
	}
}

func TestCompletionLengthFinish(t *testing.T) {
	t.Parallel()

	e := newTestEcho(cycleFactory("a"))
	rec := doJSON(t, e, http.MethodPost, "/v1/completions", `{"prefix":"a","max_tokens":3}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d body=%s", rec.Code, rec.Body.String())
	}
	var resp CompletionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.TokenCount != 3 || resp.FinishReason != "length" {
		t.Fatalf("got count=%d finish=%q, want 3/length", resp.TokenCount, resp.FinishReason)
	}
}

func TestCompletionEmptyPrefix(t *testing.T) {
	t.Parallel()

	e := newTestEcho(cycleFactory("a"))
	rec := doJSON(t, e, http.MethodPost, "/v1/completions", `{"prefix":""}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400; body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "invalid_request_error") {
		t.Fatalf("body: %s", rec.Body.String())
	}
}

func TestCompletionUnknownField(t *testing.T) {
	t.Parallel()

	e := newTestEcho(cycleFactory("a"))
	rec := doJSON(t, e, http.MethodPost, "/v1/completions", `{"prefix":"a","bogus":1}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400; body=%s", rec.Code, rec.Body.String())
	}
}

func TestCompletionMaxAttemptsExceeded(t *testing.T) {
	t.Parallel()

	e := newTestEcho(cycleFactory("xyz"))
	rec := doJSON(t, e, http.MethodPost, "/v1/completions", `{"prefix":"abc","max_attempts":5}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status: got %d, want 422; body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "max_attempts_exceeded") {
		t.Fatalf("body: %s", rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "5 attempts") {
		t.Fatalf("expected configured budget in message, body: %s", rec.Body.String())
	}
}

func TestCompletionProviderFailure(t *testing.T) {
	t.Parallel()

	factory := factoryFunc(func(_ generate.Config, _ int64) (generate.Provider, error) {
		return providerFunc(func(_ context.Context, _ []generate.Token) (generate.Token, error) {
			return generate.Token{}, errors.New("backend unavailable")
		}), nil
	})
	e := newTestEcho(factory)
	rec := doJSON(t, e, http.MethodPost, "/v1/completions", `{"prefix":"a"}`)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status: got %d, want 502; body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "tokenizer") {
		t.Fatalf("body: %s", rec.Body.String())
	}
}

func TestCompletionKnobsReachFactory(t *testing.T) {
	t.Parallel()

	var got generate.Config
	var gotSeed int64
	factory := factoryFunc(func(cfg generate.Config, seed int64) (generate.Provider, error) {
		got = cfg
		gotSeed = seed
		return providerFunc(func(_ context.Context, _ []generate.Token) (generate.Token, error) {
			return generate.Token{Value: "a"}, nil
		}), nil
	})
	e := newTestEcho(factory)
	rec := doJSON(t, e, http.MethodPost, "/v1/completions",
		`{"prefix":"a","max_tokens":1,"temperature":0.3,"top_p":0.8,"top_k":7,"seed":1234}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d body=%s", rec.Code, rec.Body.String())
	}
	if got.Temperature != 0.3 || got.TopP == nil || *got.TopP != 0.8 || got.TopK == nil || *got.TopK != 7 {
		t.Fatalf("knobs not threaded: %+v", got)
	}
	if gotSeed != 1234 {
		t.Fatalf("seed: got %d, want 1234", gotSeed)
	}
}

func TestVocabFactoryServesCompletions(t *testing.T) {
	t.Parallel()

	factory := VocabFactory{Entries: []vocab.Entry{
		{Text: "def", Weight: 5},
		{Text: " ", Weight: 1},
	}}
	e := newTestEcho(factory)
	rec := doJSON(t, e, http.MethodPost, "/v1/completions",
		`{"prefix":"def","seed":7,"temperature":0}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"text":"def`) {
		t.Fatalf("body: %s", rec.Body.String())
	}
}

func TestRateLimit(t *testing.T) {
	t.Parallel()

	e := newTestEcho(cycleFactory("a"), RateLimit(0, 1))
	first := doJSON(t, e, http.MethodPost, "/v1/completions", `{"prefix":"a","max_tokens":1}`)
	if first.Code != http.StatusOK {
		t.Fatalf("first request: got %d body=%s", first.Code, first.Body.String())
	}
	second := doJSON(t, e, http.MethodPost, "/v1/completions", `{"prefix":"a","max_tokens":1}`)
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: got %d, want 429", second.Code)
	}
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	e := newTestEcho(cycleFactory("a"))
	rec := doJSON(t, e, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "ok") {
		t.Fatalf("health: %d %s", rec.Code, rec.Body.String())
	}
}
