package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/qiaoxuchen/auto-report-agent"
)

// Programmatic config with callback adapters: reports are "delivered" to
// stdout and "persisted" by a custom function instead of SMTP + files.
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
		autoreport.WithNotifier(autoreport.NewCallbackNotifier(func(subject, body string) error {
			log.Printf("delivering %q (%d bytes)", subject, len(body))
			return nil
		})),
		autoreport.WithArtifactStore(autoreport.NewCallbackStore("stdout", func(a autoreport.Artifact) (string, error) {
			log.Printf("--- %s report generated at %s ---\n%s", a.ReportType, a.GeneratedAt, a.Body)
			return "stdout", nil
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
