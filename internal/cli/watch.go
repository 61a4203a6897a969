package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/matzehuels/magnet/pkg/pipeline"
)

// defaultDebounce collapses the burst of events editors emit on save.
const defaultDebounce = 200 * time.Millisecond

// watchCommand creates the watch command that re-renders on change.
func (c *CLI) watchCommand() *cobra.Command {
	var (
		flags    sceneFlags
		render   renderFlags
		debounce time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch [scene]",
		Short: "Re-render a scene whenever it changes",
		Long: `Re-render a scene whenever it changes.

The scene is rendered once, then again after every save. Errors are
reported and watching continues, so a half-edited scene does not stop the
session. Press Ctrl+C to stop.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := pipeline.Options{Path: args[0]}
			flags.apply(&opts)
			if err := render.apply(&opts); err != nil {
				return err
			}
			return c.runWatch(cmd.Context(), opts, render.output, flags.noCache, debounce)
		},
	}

	flags.register(cmd)
	render.register(cmd)
	cmd.Flags().DurationVar(&debounce, "debounce", defaultDebounce, "quiet period after a change before re-rendering")
	return cmd
}

func (c *CLI) runWatch(ctx context.Context, opts pipeline.Options, output string, noCache bool, debounce time.Duration) error {
	logger := loggerFromContext(ctx)
	render := func() {
		p := newProgress(logger)
		if err := c.runRender(ctx, opts, output, noCache); err != nil {
			printWarning("%v", err)
			return
		}
		p.done("Rendered " + opts.Path)
	}

	render()
	printInfo("Watching %s", opts.Path)
	return watchFile(ctx, opts.Path, debounce, logger, func() {
		printNewline()
		printInfo("%s changed", opts.Path)
		render()
	})
}

// watchFile calls onChange after path changes and stays quiet for delay.
// The parent directory is watched so editors that replace the file on save
// are still seen. onChange runs on the calling goroutine, so runs never
// overlap. watchFile returns nil when ctx is cancelled.
func watchFile(ctx context.Context, path string, delay time.Duration, logger *log.Logger, onChange func()) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debug("scene changed", "file", ev.Name, "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(delay)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(delay)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			onChange()

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err)
		}
	}
}
