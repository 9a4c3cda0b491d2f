package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v5"

	"github.com/samcharles93/prefixgen/internal/generate"
	"github.com/samcharles93/prefixgen/internal/logger"
)

// Server exposes prefix-constrained completion over HTTP.
type Server struct {
	factory ProviderFactory
	log     logger.Logger
	clock   func() time.Time
}

func NewServer(factory ProviderFactory, log logger.Logger) *Server {
	if log == nil {
		log = logger.Default()
	}
	return &Server{
		factory: factory,
		log:     log,
		clock:   time.Now,
	}
}

func (s *Server) Register(e *echo.Echo) {
	e.POST("/v1/completions", s.handleCompletion)
	e.GET("/healthz", s.handleHealth)
}

func (s *Server) handleHealth(c *echo.Context) error {
	return writeJSON(c, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCompletion(c *echo.Context) error {
	if s.factory == nil {
		return writeError(c, http.StatusInternalServerError, "server_error", "no provider configured", "")
	}

	req, err := decodeJSON[CompletionRequest](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}

	cfg := generate.ResolveConfig(generate.ConfigOptions{
		MaxAttempts: req.MaxAttempts,
		Temperature: req.Temperature,
		TopP:        req.TopP,
		TopK:        req.TopK,
	})
	genReq := generate.ResolveRequest(generate.RequestOptions{
		Prefix:     req.Prefix,
		MaxTokens:  req.MaxTokens,
		MinTokens:  req.MinTokens,
		StopTokens: req.Stop,
	})

	seed := s.clock().UnixNano()
	if req.Seed != nil {
		seed = *req.Seed
	}
	provider, err := s.factory.NewProvider(cfg, seed)
	if err != nil {
		return writeError(c, http.StatusInternalServerError, "server_error", err.Error(), "")
	}

	ctx := logger.WithContext(c.Request().Context(), s.log)
	started := s.clock()
	seq, err := generate.New(provider, cfg).Generate(ctx, genReq)
	if err != nil {
		return s.writeGenerateError(c, err)
	}

	s.log.Info("completion served",
		"tokens", seq.Len(),
		"duration", time.Since(started),
	)

	return writeJSON(c, http.StatusOK, completionResponse(seq, genReq, "cmpl-"+uuid.NewString(), started.Unix()))
}

// writeGenerateError maps the engine's closed error set onto HTTP statuses.
func (s *Server) writeGenerateError(c *echo.Context, err error) error {
	var (
		exhausted *generate.MaxAttemptsError
		invalid   *generate.InvalidPrefixError
		provider  *generate.TokenizerError
	)
	switch {
	case errors.Is(err, generate.ErrEmptyPrefix):
		return writeBadRequest(c, "prefix is required and must not be empty")
	case errors.As(err, &exhausted):
		return writeError(c, http.StatusUnprocessableEntity, "generation_error", err.Error(), "max_attempts_exceeded")
	case errors.As(err, &provider):
		return writeError(c, http.StatusBadGateway, "provider_error", err.Error(), "tokenizer_error")
	case errors.As(err, &invalid):
		s.log.Error("prefix invariant violated", "generated", invalid.Generated, "prefix", invalid.Prefix)
		return writeError(c, http.StatusInternalServerError, "server_error", err.Error(), "invalid_prefix")
	default:
		return writeError(c, http.StatusInternalServerError, "server_error", err.Error(), "")
	}
}

func completionResponse(seq generate.Sequence, req generate.Request, id string, created int64) CompletionResponse {
	finish := "stop"
	if seq.Len() >= req.MaxTokens {
		finish = "length"
	}

	tokens := make([]CompletionToken, 0, seq.Len())
	for _, t := range seq {
		view := CompletionToken{Text: t.Value, Logprob: t.Logprob}
		for _, m := range t.Metadata {
			view.Metadata = append(view.Metadata, MetaPair{Key: m.Key, Value: m.Value})
		}
		tokens = append(tokens, view)
	}

	return CompletionResponse{
		ID:           id,
		Object:       "text_completion",
		Created:      created,
		Text:         seq.Text(),
		Logprob:      seq.Logprob(),
		TokenCount:   seq.Len(),
		FinishReason: finish,
		Tokens:       tokens,
	}
}
