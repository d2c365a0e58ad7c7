package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/qiaoxuchen/auto-report-agent"
)

// heartbeatCollector is a toy producer that pushes one data point per second
// under its own source tag. Any external producer follows this shape.
type heartbeatCollector struct {
	stopCh chan struct{}
}

func (h *heartbeatCollector) Name() string { return "heartbeat" }

func (h *heartbeatCollector) Start(sink autoreport.Ingestor) error {
	h.stopCh = make(chan struct{})
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-h.stopCh:
				return
			case t := <-ticker.C:
				sink.Add("heartbeat", map[string]any{"beat": t.Unix()})
			}
		}
	}()
	return nil
}

func (h *heartbeatCollector) Stop() error {
	close(h.stopCh)
	return nil
}

func main() {
	cfg := &autoreport.Config{
		Summarizer: autoreport.SummarizerConfig{Enabled: true},
		Reports: map[string]autoreport.ReportTypeConfig{
			"daily": {Enabled: true, Schedule: "0 18 * * *", Description: "daily report"},
		},
	}
	cfg.Summarizer.APIKey = os.Getenv("SUMMARIZER_API_KEY")
	cfg.ApplyDefaults()

	rt, err := autoreport.NewRuntime(cfg,
		autoreport.WithCollector(&heartbeatCollector{}),
		autoreport.WithNotifier(autoreport.NewCallbackNotifier(func(subject, body string) error {
			log.Printf("report ready: %s", subject)
			return nil
		})),
	)
	if err != nil {
		log.Fatalf("build runtime: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rt.Run(ctx); err != nil {
		log.Fatalf("run: %v", err)
	}
}
