package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/qiaoxuchen/auto-report-agent"
)

// Minimal embedding: load a YAML config and run until interrupted.
func main() {
	rt, err := autoreport.Conf("./config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rt.Run(ctx); err != nil {
		log.Fatalf("run: %v", err)
	}
}
