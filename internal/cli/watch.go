package cli

import (
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/lendfi/lendclient/internal/config"
)

// debounceWindow batches the burst of fsnotify events an editor save
// produces into a single rebuild.
const debounceWindow = 250 * time.Millisecond

// WatchOptions holds flags for the watch command.
type WatchOptions struct {
	*BuildOptions
}

// NewWatchCommand creates the watch command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	buildOpts := &BuildOptions{RootOptions: rootOpts}
	opts := &WatchOptions{BuildOptions: buildOpts}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebuild whenever the MASM source changes",
		Long: `Run the build pipeline, then watch the MASM source root and rerun the
pipeline whenever any file beneath it changes. Build failures are
reported and watching continues; interrupt to stop.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Manifest, "manifest", config.DefaultManifestFile, "build manifest file")
	cmd.Flags().StringVar(&opts.Source, "source", "", "MASM source root (overrides manifest)")
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "artifact output directory (overrides manifest)")
	cmd.Flags().StringVar(&opts.Work, "work", "", "build workspace directory (default: temp dir)")
	cmd.Flags().BoolVar(&opts.WriteGenerated, "write-generated", false, "write the generated error registry (overrides manifest)")

	return cmd
}

func runWatch(opts *WatchOptions, cmd *cobra.Command) error {
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: logLevel}))

	pipeline, cleanup, err := newPipeline(opts.BuildOptions, cmd)
	if err != nil {
		return WrapExitError(ExitCommandError, err.Error(), err)
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return WrapExitError(ExitCommandError, "creating file watcher", err)
	}
	defer watcher.Close()

	if err := watchTree(watcher, pipeline.SourceRoot); err != nil {
		return WrapExitError(ExitCommandError, "watching source tree", err)
	}

	rebuild := func() {
		result, err := pipeline.Run()
		if err != nil {
			logger.Error("build failed", "error", err)
			return
		}
		logger.Info("build succeeded",
			"libraries", len(result.Libraries),
			"note_scripts", len(result.Programs),
			"errors_generated", result.ErrorsGenerated)
	}

	logger.Info("watching", "source", pipeline.SourceRoot)
	rebuild()

	var debounce *time.Timer
	pending := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			logger.Info("stopping watcher")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			logger.Debug("source changed", "path", event.Name, "op", event.Op.String())

			// New directories must be watched too.
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = watchTree(watcher, event.Name)
				}
			}

			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceWindow, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error", "error", err)

		case <-pending:
			rebuild()
		}
	}
}

// watchTree registers root and every directory beneath it. A missing
// root is not an error; the watcher just reports nothing until it
// appears in a watched parent.
func watchTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}
