package generate

// Defaults applied by ResolveConfig and ResolveRequest when the caller does
// not supply a value.
const (
	DefaultMaxAttempts = 1000
	DefaultTemperature = 1.0
	DefaultMaxTokens   = 100
	DefaultMinTokens   = 1
)

// Config holds the per-sampler settings. MaxAttempts is the retry budget for
// one generation step. Temperature, TopP and TopK are passed through to the
// provider untouched; the engine neither reads nor validates them.
type Config struct {
	MaxAttempts int
	Temperature float64
	TopP        *float64
	TopK        *int
}

// ConfigOptions are caller-supplied overrides. Nil fields keep the default.
type ConfigOptions struct {
	MaxAttempts *int
	Temperature *float64
	TopP        *float64
	TopK        *int
}

// ResolveConfig merges opts onto the defaults. A non-positive MaxAttempts
// falls back to DefaultMaxAttempts.
func ResolveConfig(opts ConfigOptions) Config {
	cfg := Config{
		MaxAttempts: DefaultMaxAttempts,
		Temperature: DefaultTemperature,
	}
	if opts.MaxAttempts != nil && *opts.MaxAttempts > 0 {
		cfg.MaxAttempts = *opts.MaxAttempts
	}
	if opts.Temperature != nil {
		cfg.Temperature = *opts.Temperature
	}
	cfg.TopP = opts.TopP
	cfg.TopK = opts.TopK
	return cfg
}
