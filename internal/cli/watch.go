package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/matzehuels/calgrid/pkg/calendar"
	"github.com/matzehuels/calgrid/pkg/pipeline"
	"github.com/matzehuels/calgrid/pkg/publish"
)

// gridPublisher is satisfied by *publish.Publisher.
type gridPublisher interface {
	PublishGrid(ctx context.Context, g calendar.Grid) error
}

// watchCommand re-renders the configured calendars on a cron schedule.
func (c *CLI) watchCommand() *cobra.Command {
	var (
		schedule  string
		outputDir string
		natsURL   string
		once      bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Refresh, render and publish the calendar on a schedule",
		Long: `Refresh, render and publish the calendar on a schedule.

On every tick the configured feeds are fetched again, the current view is
laid out and rendered, artifacts are written to the output directory and
the grid is published to NATS when a server URL is configured.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			fs := cmd.Flags()
			if fs.Changed("schedule") {
				cfg.Watch.Schedule = schedule
			}
			if fs.Changed("output-dir") {
				cfg.Watch.OutputDir = outputDir
			}
			if fs.Changed("nats") {
				cfg.NATS.URL = natsURL
			}

			runner, err := c.newRunner(ctx, cfg, false)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			opts := cfg.PipelineOptions()
			opts.View = cfg.Watch.View
			opts.Formats = cfg.Watch.Formats
			opts.HiddenCalendars = cfg.HiddenCalendars()
			opts.Refresh = true

			var pub gridPublisher
			if cfg.NATS.URL != "" {
				p, err := publish.NewPublisher(publish.Config{
					URL:     cfg.NATS.URL,
					Subject: cfg.NATS.Subject,
					Name:    cfg.NATS.Name,
				}, c.Logger)
				if err != nil {
					return err
				}
				defer p.Close()
				pub = p
			}

			w := &watcher{
				runner:    runner,
				opts:      opts,
				outputDir: cfg.Watch.OutputDir,
				publisher: pub,
				logger:    c.Logger,
			}
			if once {
				return w.tick(ctx)
			}
			return w.run(ctx, cfg.Watch.Schedule)
		},
	}

	cmd.Flags().StringVar(&schedule, "schedule", "", "cron schedule (default: config or */15 * * * *)")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "directory for rendered artifacts")
	cmd.Flags().StringVar(&natsURL, "nats", "", "NATS server URL to publish grids to")
	cmd.Flags().BoolVar(&once, "once", false, "run a single refresh and exit")

	return cmd
}

type watcher struct {
	runner    *pipeline.Runner
	opts      pipeline.Options
	outputDir string
	publisher gridPublisher
	logger    *log.Logger
}

// run executes tick on schedule until ctx is canceled. Ticks never
// overlap; a slow refresh skips the next one.
func (w *watcher) run(ctx context.Context, schedule string) error {
	sched := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := sched.AddFunc(schedule, func() {
		if err := w.tick(ctx); err != nil {
			w.logger.Error("refresh failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("schedule %q: %w", schedule, err)
	}

	w.logger.Info("watching", "schedule", schedule, "sources", len(w.opts.Sources))
	if err := w.tick(ctx); err != nil {
		w.logger.Error("refresh failed", "error", err)
	}

	sched.Start()
	<-ctx.Done()
	<-sched.Stop().Done()
	w.logger.Info("watch stopped")
	return nil
}

// tick runs one refresh: render, write and publish.
func (w *watcher) tick(ctx context.Context) error {
	result, err := w.runner.Execute(ctx, w.opts.Clone())
	if err != nil {
		return err
	}

	if w.outputDir != "" {
		if err := os.MkdirAll(w.outputDir, 0o755); err != nil {
			return err
		}
		base := filepath.Join(w.outputDir, defaultBase(result.Grid))
		formats := w.opts.Formats
		if len(formats) == 0 {
			formats = []string{pipeline.FormatSVG}
		}
		paths, err := writeArtifacts(result.Artifacts, formats, "", base)
		if err != nil {
			return err
		}
		w.logger.Info("wrote artifacts", "files", paths)
	}

	if w.publisher != nil {
		if err := w.publisher.PublishGrid(ctx, result.Grid); err != nil {
			return err
		}
	}
	return nil
}
