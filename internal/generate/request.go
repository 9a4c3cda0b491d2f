package generate

// Request describes one generation call. Prefix is the required leading text
// of the final output and must be non-empty; an empty prefix fails the call
// with ErrEmptyPrefix.
type Request struct {
	Prefix     string
	MaxTokens  int
	MinTokens  int
	StopTokens []string
}

// RequestOptions are caller-supplied overrides for a Request. Nil fields keep
// the default (MaxTokens 100, MinTokens 1, no stop tokens).
type RequestOptions struct {
	Prefix     string
	MaxTokens  *int
	MinTokens  *int
	StopTokens []string
}

// ResolveRequest merges opts onto the request defaults.
func ResolveRequest(opts RequestOptions) Request {
	req := Request{
		Prefix:     opts.Prefix,
		MaxTokens:  DefaultMaxTokens,
		MinTokens:  DefaultMinTokens,
		StopTokens: opts.StopTokens,
	}
	if opts.MaxTokens != nil {
		req.MaxTokens = *opts.MaxTokens
	}
	if opts.MinTokens != nil {
		req.MinTokens = *opts.MinTokens
	}
	return req
}
