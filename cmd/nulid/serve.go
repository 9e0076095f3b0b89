package main

import (
	"context"
	"os"

	"github.com/deep-rent/nulid/app"
	"github.com/deep-rent/nulid/clock"
	"github.com/deep-rent/nulid/flag"
	"github.com/deep-rent/nulid/generator"
	"github.com/deep-rent/nulid/log"
	"github.com/deep-rent/nulid/scheduler"
)

// runServe implements the "serve" subcommand: a long-lived process that
// mints one identifier per tick and periodically checks whether the
// generator's last emission has drifted ahead of wall-clock time by more
// than the configured bound.
func runServe(args []string) error {
	var configFile string
	probe := flag.New("nulid serve")
	probe.Add(&configFile, "c", "config", "Path to a config file")
	probe.Parse(args...)
	if configFile == "" {
		configFile = os.Getenv("NULID_CONFIG")
	}

	cfg, err := loadConfig(configFile)
	if err != nil {
		return err
	}

	fs := flag.New("nulid serve")
	fs.Add(&configFile, "c", "config", "Path to a config file")
	fs.Add(&cfg.Node, "", "node", "Node discriminator (decimal or 0x-hex); omit for a fully random payload")
	fs.Add(&cfg.Interval, "i", "interval", "Minting interval, e.g. 5s")
	fs.Add(&cfg.Bound, "", "bound", "Drift bound, e.g. 250ms, before a warning is logged")
	fs.Add(&cfg.LogLevel, "", "log-level", "Log level: debug, info, warn, or error")
	fs.Add(&cfg.LogFormat, "", "log-format", "Log format: text or json")
	fs.Parse(args...)

	logger := log.New(
		log.WithLevel(cfg.LogLevel),
		log.WithFormat(cfg.LogFormat),
	)

	var opts []generator.Option
	if n, present, err := cfg.resolveNodeID(); err != nil {
		return err
	} else if present {
		opts = append(opts, generator.WithNodeID(n))
	}
	gen := generator.New(opts...)

	runnable := func(ctx context.Context) error {
		sched := scheduler.New(ctx)
		defer sched.Shutdown()

		sched.Dispatch(scheduler.Every(cfg.Interval, scheduler.TaskFn(func(ctx context.Context) {
			v, err := gen.Generate()
			if err != nil {
				logger.ErrorContext(ctx, "failed to mint identifier", "error", err)
				return
			}
			logger.InfoContext(ctx, "minted identifier",
				"id", v.String(),
				"seconds", v.Seconds(),
			)
		})))

		sched.Dispatch(scheduler.Every(cfg.Interval, scheduler.TaskFn(func(ctx context.Context) {
			drift, over := gen.DriftAhead(clock.System(), cfg.Bound)
			if over {
				logger.WarnContext(ctx, "generator running ahead of wall-clock time",
					"drift", drift, "bound", cfg.Bound)
			}
		})))

		<-ctx.Done()
		return nil
	}

	return app.Run(runnable, app.WithLogger(logger))
}
