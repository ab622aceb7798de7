package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/framemill/framemill/internal/config"
	"github.com/framemill/framemill/internal/history"
	"github.com/framemill/framemill/pkg/display"
	"github.com/framemill/framemill/pkg/pipeline"
)

func newProcessCommand(configPath *string) *cobra.Command {
	var headless bool

	cmd := &cobra.Command{
		Use:   "process <input> <output>",
		Short: "Process a video file and write the annotated stream to a new file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(cmd, *configPath, args[0], args[1], headless)
		},
	}
	cmd.Flags().BoolVar(&headless, "headless", false, "disable the live view server")
	return cmd
}

func runProcess(cmd *cobra.Command, configPath, input, output string, headless bool) (err error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	logger, closeLog, err := newRunLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	// One run at a time per state directory.
	lock := flock.New(filepath.Join(cfg.StateDir, "framemill.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another framemill run is already in progress")
	}
	defer func() { _ = lock.Unlock() }()

	store, err := history.Open(cfg.StateDir)
	if err != nil {
		return err
	}
	defer store.Close()

	runID := uuid.NewString()
	log := logger.WithField("run", runID)

	var sink display.Sink = display.Nop{}
	if !headless {
		httpSink, sinkErr := display.NewHTTPSink(cfg.ListenAddr, cfg.JPEGQuality, cfg.InterruptKey)
		if sinkErr != nil {
			return sinkErr
		}
		sink = httpSink
		fmt.Fprintf(cmd.OutOrStdout(), "Live views: http://%s/ (press %q then Enter, or use the Stop button, to interrupt)\n",
			httpSink.Addr(), cfg.InterruptKey)
	}

	orch, err := pipeline.New(pipeline.Options{
		Source:       input,
		Output:       output,
		TargetWidth:  cfg.TargetWidth,
		TargetHeight: cfg.TargetHeight,
		Sink:         sink,
		Log:          log,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	run := &history.Run{ID: runID, Source: input, Output: output, State: pipeline.StateRunning.String()}
	if err := store.RecordStart(ctx, run); err != nil {
		log.WithError(err).Warn("record run start")
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Processing video . . .")
	res, runErr := runGuarded(ctx, orch, log)

	run.Width, run.Height = res.Meta.Width, res.Meta.Height
	run.FPS = res.Meta.FPS
	run.TotalFrames = res.Meta.TotalFrames
	run.FramesProcessed = res.FramesProcessed
	run.MeanFPS = res.Stats.FPS
	run.State = res.State.String()
	if runErr != nil {
		run.Error = runErr.Error()
	}
	if err := store.RecordFinish(context.Background(), run); err != nil {
		log.WithError(err).Warn("record run finish")
	}

	if runErr != nil {
		// The fault is already in the log; report it to the console and
		// stop here rather than letting it escape.
		return runErr
	}

	printSummary(cmd.OutOrStdout(), res)
	fmt.Fprintf(cmd.OutOrStdout(), "Processed video saved as %s\n", res.Output)
	return nil
}

// runGuarded confines any panic escaping the orchestrator to this run: it is
// logged, reported as an error, and never propagates past the CLI.
func runGuarded(ctx context.Context, orch *pipeline.Orchestrator, log logrus.FieldLogger) (res pipeline.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("unexpected fault: %v", r)
			log.WithField("panic", r).Error("run panicked")
			_ = orch.Close()
			res.State = pipeline.StateFailed
		}
	}()
	return orch.Run(ctx)
}

func newRunLogger(cfg config.Config) (*logrus.Logger, func(), error) {
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file %q: %w", cfg.LogFile, err)
	}

	logger := logrus.New()
	logger.SetOutput(f)
	logger.SetLevel(logrus.InfoLevel)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return logger, func() { _ = f.Close() }, nil
}

func printSummary(w io.Writer, res pipeline.Result) {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"State", "Frames", "Source Frames", "Elapsed", "Mean FPS"})
	t.AppendRow(table.Row{
		res.State.String(),
		res.FramesProcessed,
		res.Meta.TotalFrames,
		(time.Duration(res.Stats.ElapsedSeconds * float64(time.Second))).Round(time.Millisecond),
		fmt.Sprintf("%.2f", res.Stats.FPS),
	})
	fmt.Fprintln(w, t.Render())
}
