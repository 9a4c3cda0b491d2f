package api

// CompletionRequest is the body of POST /v1/completions. Prefix is the
// required leading text of the completion. All other fields are optional and
// fall back to the engine defaults.
type CompletionRequest struct {
	Prefix      string   `json:"prefix"`
	MaxTokens   *int     `json:"max_tokens,omitempty"`
	MinTokens   *int     `json:"min_tokens,omitempty"`
	Stop        []string `json:"stop,omitempty"`
	MaxAttempts *int     `json:"max_attempts,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	TopP        *float64 `json:"top_p,omitempty"`
	TopK        *int     `json:"top_k,omitempty"`
	Seed        *int64   `json:"seed,omitempty"`
}

// CompletionToken is one accepted token in a completion response. Metadata
// preserves the provider's ordered key/value pairs, duplicates included.
type CompletionToken struct {
	Text     string     `json:"text"`
	Logprob  float64    `json:"logprob"`
	Metadata []MetaPair `json:"metadata,omitempty"`
}

type MetaPair struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// CompletionResponse is the success body of POST /v1/completions.
type CompletionResponse struct {
	ID           string            `json:"id"`
	Object       string            `json:"object"`
	Created      int64             `json:"created"`
	Text         string            `json:"text"`
	Logprob      float64           `json:"logprob"`
	TokenCount   int               `json:"token_count"`
	FinishReason string            `json:"finish_reason"`
	Tokens       []CompletionToken `json:"tokens"`
}

// ResponseError is the error payload wrapped under "error" in failure
// responses.
type ResponseError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
}
