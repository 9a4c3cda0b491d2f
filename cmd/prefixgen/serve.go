package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/prefixgen/internal/api"
	"github.com/samcharles93/prefixgen/internal/logger"
	"github.com/samcharles93/prefixgen/internal/vocab"
)

func serveCmd() *cli.Command {
	var (
		addr        string
		readTimeout time.Duration
		rateRPS     float64
		rateBurst   int64
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "listen address",
			Value:       "127.0.0.1:8080",
			Destination: &addr,
		},
		&cli.DurationFlag{
			Name:        "read-timeout",
			Usage:       "read timeout",
			Value:       30 * time.Second,
			Destination: &readTimeout,
		},
		&cli.Float64Flag{
			Name:        "rate-limit",
			Usage:       "max requests per second (0 = unlimited)",
			Destination: &rateRPS,
		},
		&cli.Int64Flag{
			Name:        "rate-burst",
			Usage:       "rate limiter burst size",
			Value:       10,
			Destination: &rateBurst,
		},
	}
	flags = append(flags, vocabFlags()...)
	flags = append(flags, loggingFlags()...)

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the completions REST API",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			fileCfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if fileCfg.VocabPath != "" && !c.IsSet("vocab") {
				vocabPath = fileCfg.VocabPath
			}
			if fileCfg.ServerAddress != "" && !c.IsSet("addr") {
				addr = fileCfg.ServerAddress
			}
			if fileCfg.LogLevel != "" && !c.IsSet("log-level") {
				logLevel = fileCfg.LogLevel
			}
			if fileCfg.LogFormat != "" && !c.IsSet("log-format") {
				logFormat = fileCfg.LogFormat
			}

			log := buildLogger()

			entries := vocab.DefaultEntries()
			if vocabPath != "" {
				entries, err = vocab.LoadEntries(vocabPath)
				if err != nil {
					return err
				}
			}

			server := api.NewServer(api.VocabFactory{Entries: entries}, log)
			e := echo.New()
			e.Use(middleware.Recover())
			if rateRPS > 0 {
				e.Use(api.RateLimit(rateRPS, int(rateBurst)))
			}
			server.Register(e)

			ctx = logger.WithContext(ctx, log)
			log.Info("starting server", "address", addr, "vocab_size", len(entries))
			sc := echo.StartConfig{
				Address: addr,
				BeforeServeFunc: func(srv *http.Server) error {
					srv.ReadHeaderTimeout = readTimeout
					return nil
				},
			}
			return sc.Start(ctx, e)
		},
	}
}
