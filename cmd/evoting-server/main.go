package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/evoting/core/api"
	"github.com/evoting/core/config"
	"github.com/evoting/core/log"
	"github.com/evoting/core/voting"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading configuration: %v\n", err)
		os.Exit(1)
	}

	log.Init(cfg.Log.Level, cfg.Log.Output, nil)
	log.Infow("starting evoting-server",
		"candidates", cfg.Election.Candidates,
		"maxVoters", cfg.Election.MaxVoters,
	)

	server, err := voting.NewServer(cfg.Election.Candidates, cfg.Election.MaxVoters)
	if err != nil {
		log.Fatalf("failed to set up election server: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if _, err := api.New(ctx, &api.APIConfig{Host: cfg.API.Host, Port: cfg.API.Port}, server); err != nil {
		log.Fatalf("failed to start API server: %v", err)
	}

	if cfg.Election.OpenVoteAuto {
		go func() {
			log.Infow("auto-open scheduled", "wait", cfg.Election.AutoOpenWait.String())
			select {
			case <-time.After(cfg.Election.AutoOpenWait):
				result, err := server.OpenVote()
				if err != nil {
					log.Warnw("auto-open failed", "error", err)
					return
				}
				log.Infow("vote auto-opened", "tally", result)
			case <-ctx.Done():
			}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	sig := <-sigCh
	log.Infow("received signal, shutting down", "signal", sig.String())
}
