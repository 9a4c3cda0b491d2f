package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/prefixgen/internal/generate"
	"github.com/samcharles93/prefixgen/internal/logger"
	"github.com/samcharles93/prefixgen/internal/vocab"
)

func completeCmd() *cli.Command {
	var (
		prefix      string
		maxTokens   int64
		minTokens   int64
		maxAttempts int64
		temp        float64
		topK        int64
		topP        float64
		seed        int64
		asJSON      bool
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "prefix",
			Aliases:     []string{"p"},
			Usage:       "required leading text of the completion (interactive mode when unset)",
			Destination: &prefix,
		},
		&cli.Int64Flag{
			Name:        "max-tokens",
			Aliases:     []string{"n"},
			Usage:       "maximum number of tokens to generate",
			Value:       int64(generate.DefaultMaxTokens),
			Destination: &maxTokens,
		},
		&cli.Int64Flag{
			Name:        "min-tokens",
			Usage:       "minimum number of tokens before a stop token or whitespace ends generation",
			Value:       int64(generate.DefaultMinTokens),
			Destination: &minTokens,
		},
		&cli.Int64Flag{
			Name:        "max-attempts",
			Usage:       "rejection-sampling retry budget per token",
			Value:       int64(generate.DefaultMaxAttempts),
			Destination: &maxAttempts,
		},
		&cli.StringSliceFlag{
			Name:  "stop",
			Usage: "token value that ends generation once the minimum length is met (repeatable)",
		},
		&cli.Float64Flag{
			Name:        "temp",
			Aliases:     []string{"temperature", "t"},
			Usage:       "sampling temperature (0 = greedy)",
			Value:       generate.DefaultTemperature,
			Destination: &temp,
		},
		&cli.Int64Flag{
			Name:        "top-k",
			Usage:       "top-k shortlist size (0 = provider default)",
			Destination: &topK,
		},
		&cli.Float64Flag{
			Name:        "top-p",
			Usage:       "nucleus sampling cutoff in (0,1] (0 = disabled)",
			Destination: &topP,
		},
		&cli.Int64Flag{
			Name:        "seed",
			Usage:       "RNG seed (-1 = time-based)",
			Value:       -1,
			Destination: &seed,
		},
		&cli.BoolFlag{
			Name:        "json",
			Usage:       "print the full token sequence as JSON",
			Destination: &asJSON,
		},
	}
	flags = append(flags, vocabFlags()...)
	flags = append(flags, loggingFlags()...)

	return &cli.Command{
		Name:  "complete",
		Usage: "Generate a completion constrained to start with a prefix",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			fileCfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			applySamplingConfig(c, fileCfg, &temp, &topK, &topP, &maxAttempts, &maxTokens, &minTokens, &seed)

			log := buildLogger()
			ctx = logger.WithContext(ctx, log)

			cfg := resolveEngineConfig(temp, topK, topP, maxAttempts)
			seedVal := seed
			if seedVal < 0 {
				seedVal = time.Now().UnixNano()
			}

			provider, err := buildProvider(cfg, seedVal)
			if err != nil {
				return err
			}
			gen := generate.New(provider, cfg)

			mt := int(maxTokens)
			mn := int(minTokens)
			stops := c.StringSlice("stop")

			runOne := func(p string) error {
				seq, err := gen.Generate(ctx, generate.ResolveRequest(generate.RequestOptions{
					Prefix:     p,
					MaxTokens:  &mt,
					MinTokens:  &mn,
					StopTokens: stops,
				}))
				if err != nil {
					return err
				}
				return printSequence(seq, asJSON)
			}

			if prefix != "" {
				return runOne(prefix)
			}
			if !stdinIsTTY() {
				data, err := io.ReadAll(bufio.NewReader(os.Stdin))
				if err != nil {
					return err
				}
				return runOne(strings.TrimRight(string(data), "\n"))
			}
			return interactiveLoop(log, runOne)
		},
	}
}

func resolveEngineConfig(temp float64, topK int64, topP float64, maxAttempts int64) generate.Config {
	opts := generate.ConfigOptions{
		Temperature: &temp,
	}
	if maxAttempts > 0 {
		attempts := int(maxAttempts)
		opts.MaxAttempts = &attempts
	}
	if topK > 0 {
		k := int(topK)
		opts.TopK = &k
	}
	if topP > 0 {
		p := topP
		opts.TopP = &p
	}
	return generate.ResolveConfig(opts)
}

func buildProvider(cfg generate.Config, seed int64) (generate.Provider, error) {
	scfg := vocab.FromConfig(cfg, seed)
	if vocabPath != "" {
		return vocab.Load(vocabPath, scfg)
	}
	return vocab.New(vocab.DefaultEntries(), scfg)
}

func printSequence(seq generate.Sequence, asJSON bool) error {
	if !asJSON {
		fmt.Println(seq.Text())
		return nil
	}

	type metaDump struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	}
	type tokenDump struct {
		Text     string     `json:"text"`
		Logprob  float64    `json:"logprob"`
		Metadata []metaDump `json:"metadata,omitempty"`
	}
	out := struct {
		Text    string      `json:"text"`
		Logprob float64     `json:"logprob"`
		Count   int         `json:"count"`
		Tokens  []tokenDump `json:"tokens"`
	}{
		Text:    seq.Text(),
		Logprob: seq.Logprob(),
		Count:   seq.Len(),
	}
	for _, t := range seq {
		td := tokenDump{Text: t.Value, Logprob: t.Logprob}
		for _, m := range t.Metadata {
			td.Metadata = append(td.Metadata, metaDump{Key: m.Key, Value: m.Value})
		}
		out.Tokens = append(out.Tokens, td)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func interactiveLoop(log logger.Logger, runOne func(string) error) error {
	fmt.Println("prefixgen interactive mode; empty line or 'exit' quits")
	for {
		line, err := readInteractiveLine("prefix> ")
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" || line == "exit" || line == "quit" {
			return nil
		}
		if err := runOne(line); err != nil {
			log.Error("generation failed", "error", err)
		}
	}
}
