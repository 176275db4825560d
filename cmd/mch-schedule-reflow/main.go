package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/barometz/mch-schedule-reflow/internal/config"
	"github.com/barometz/mch-schedule-reflow/internal/convert"
	"github.com/barometz/mch-schedule-reflow/internal/export"
	"github.com/barometz/mch-schedule-reflow/internal/fetch"
	appLog "github.com/barometz/mch-schedule-reflow/internal/log"
	"github.com/barometz/mch-schedule-reflow/internal/render"
	"github.com/barometz/mch-schedule-reflow/internal/schedule"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "mch-schedule-reflow",
		Short: "Convert a conference schedule export into readable documents",
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath(), "path to config file")

	rootCmd.AddCommand(convertCmd())
	rootCmd.AddCommand(fetchCmd())
	rootCmd.AddCommand(renderCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func defaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".schedule-reflow", "config.yaml")
}

func convertCmd() *cobra.Command {
	var (
		input  string
		url    string
		output string
		format string
		mode   string
		keep   bool
	)

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Fetch the schedule and convert it in one shot",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			// CLI flags beat config file values.
			if url != "" {
				cfg.ScheduleURL = url
			}
			if output != "" {
				cfg.Output = output
			}
			if format != "" {
				cfg.Format = format
			}
			if mode != "" {
				cfg.RenderMode = mode
			}
			if keep {
				cfg.KeepIntermediate = true
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			events, err := loadEvents(ctx, cfg, input)
			if err != nil {
				return err
			}

			if err := writeOutput(ctx, cfg, events); err != nil {
				return err
			}

			appLog.Info("convert done", "output", cfg.Output, "format", cfg.Format, "events", len(events))
			return nil
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "read the schedule from a local file instead of fetching")
	cmd.Flags().StringVar(&url, "url", "", "schedule export URL (overrides config)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (overrides config)")
	cmd.Flags().StringVar(&format, "format", "", "output format: markdown, html, epub or ics")
	cmd.Flags().StringVar(&mode, "mode", "", "render mode: full or inline")
	cmd.Flags().BoolVar(&keep, "keep-intermediate", false, "keep the intermediate markdown file")
	return cmd
}

func fetchCmd() *cobra.Command {
	var (
		url    string
		output string
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch the schedule export to a local file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if url != "" {
				cfg.ScheduleURL = url
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			body, fromCache, err := fetch.New(cfg.CacheDir).Fetch(ctx, cfg.ScheduleURL)
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, body, 0o644); err != nil {
				return err
			}

			appLog.Info("fetch written", "output", output, "bytes", len(body), "from_cache", fromCache)
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "schedule export URL (overrides config)")
	cmd.Flags().StringVarP(&output, "output", "o", "schedule.json", "destination file")
	return cmd
}

func renderCmd() *cobra.Command {
	var (
		output string
		mode   string
	)

	cmd := &cobra.Command{
		Use:   "render [schedule.json]",
		Short: "Render a local schedule export to markdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			events, err := schedule.Extract(bytes.NewReader(body))
			if err != nil {
				return err
			}

			var w io.Writer = os.Stdout
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return renderMarkdown(w, events, mode)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "destination file (default stdout)")
	cmd.Flags().StringVar(&mode, "mode", "full", "render mode: full or inline")
	return cmd
}

// loadEvents obtains the raw schedule document (local file or fetch) and
// extracts the flat event sequence. A fetched document that turns out to
// be malformed is retained in the cache directory for inspection.
func loadEvents(ctx context.Context, cfg *config.Config, input string) ([]schedule.Event, error) {
	var (
		body    []byte
		fetcher *fetch.Fetcher
	)

	if input != "" {
		data, err := os.ReadFile(input)
		if err != nil {
			return nil, err
		}
		body = data
	} else {
		fetcher = fetch.New(cfg.CacheDir)
		data, _, err := fetcher.Fetch(ctx, cfg.ScheduleURL)
		if err != nil {
			return nil, err
		}
		body = data
	}

	events, err := schedule.Extract(bytes.NewReader(body))
	if err != nil {
		if fetcher != nil && errors.Is(err, schedule.ErrMalformedSchedule) {
			if path, werr := fetcher.Retain("rejected-schedule.json", body); werr == nil {
				appLog.Error("schedule rejected; raw document retained", err, "path", path)
			}
		}
		return nil, err
	}
	return events, nil
}

func writeOutput(ctx context.Context, cfg *config.Config, events []schedule.Event) error {
	switch cfg.Format {
	case "ics":
		f, err := os.Create(cfg.Output)
		if err != nil {
			return err
		}
		defer f.Close()
		return export.WriteICS(f, events)

	case "markdown":
		f, err := os.Create(cfg.Output)
		if err != nil {
			return err
		}
		defer f.Close()
		return renderMarkdown(f, events, cfg.RenderMode)

	case "html":
		var md bytes.Buffer
		if err := renderMarkdown(&md, events, cfg.RenderMode); err != nil {
			return err
		}
		f, err := os.Create(cfg.Output)
		if err != nil {
			return err
		}
		defer f.Close()
		return convert.ToHTML(f, md.Bytes())

	case "epub":
		tmp, err := os.CreateTemp("", "schedule-*.md")
		if err != nil {
			return err
		}
		mdPath := tmp.Name()
		if err := renderMarkdown(tmp, events, cfg.RenderMode); err != nil {
			tmp.Close()
			os.Remove(mdPath)
			return err
		}
		if err := tmp.Close(); err != nil {
			os.Remove(mdPath)
			return err
		}
		if err := convert.WithPandoc(ctx, mdPath, convert.KindEPUB, cfg.Output); err != nil {
			// The intermediate markdown stays put; *convert.Error points
			// at it.
			return err
		}
		if cfg.KeepIntermediate {
			appLog.Info("intermediate markdown kept", "path", mdPath)
		} else {
			os.Remove(mdPath)
		}
		return nil

	default:
		return fmt.Errorf("unknown output format %q", cfg.Format)
	}
}

func renderMarkdown(w io.Writer, events []schedule.Event, mode string) error {
	r, err := render.New(render.Options{Mode: render.Mode(mode)})
	if err != nil {
		return err
	}
	return r.Render(w, events, schedule.ByRoomThenDay(events), schedule.ByDayThenRoom(events))
}
