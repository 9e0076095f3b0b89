package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/deep-rent/nulid/backoff"
	"github.com/deep-rent/nulid/flag"
	"github.com/deep-rent/nulid/header"
	"github.com/deep-rent/nulid/retry"
	"github.com/deep-rent/nulid/updater"
)

// runCheck implements the "check" subcommand: query GitHub for the latest
// release of this tool and report whether a newer version is available.
func runCheck(args []string) error {
	var configFile string
	probe := flag.New("nulid check")
	probe.Add(&configFile, "c", "config", "Path to a config file")
	probe.Parse(args...)
	if configFile == "" {
		configFile = os.Getenv("NULID_CONFIG")
	}

	cfg, err := loadConfig(configFile)
	if err != nil {
		return err
	}

	fs := flag.New("nulid check")
	fs.Add(&configFile, "c", "config", "Path to a config file")
	fs.Add(&cfg.Owner, "", "owner", "GitHub repository owner to check against")
	fs.Add(&cfg.Repo, "", "repo", "GitHub repository name to check against")
	fs.Parse(args...)

	transport := header.NewTransport(
		http.DefaultTransport,
		header.UserAgent("nulid", Version, "https://github.com/"+cfg.Owner+"/"+cfg.Repo),
	)
	transport = retry.NewTransport(
		transport,
		retry.WithPolicy(retry.GitHubPolicy()),
		retry.WithAttemptLimit(3),
		retry.WithBackoff(backoff.New(backoff.WithMinDelay(500*time.Millisecond))),
	)

	u := updater.New(&updater.Config{
		Owner:   cfg.Owner,
		Repo:    cfg.Repo,
		Current: Version,
		Client:  &http.Client{Timeout: 10 * time.Second, Transport: transport},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	release, err := u.Check(ctx)
	if err != nil {
		return fmt.Errorf("check for update: %w", err)
	}
	if release == nil {
		fmt.Printf("nulid %s is up to date\n", Version)
		return nil
	}

	fmt.Printf("a newer version is available: %s (current: %s)\n", release.Version, Version)
	fmt.Printf("  %s\n", release.URL)
	return nil
}
