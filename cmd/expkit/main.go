package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/charlesng35/expkit/internal/app"
	"github.com/charlesng35/expkit/internal/experiment"
	apperrors "github.com/charlesng35/expkit/pkg/errors"
	"github.com/charlesng35/expkit/pkg/logger"
	"github.com/charlesng35/expkit/pkg/metrics"
	"github.com/charlesng35/expkit/pkg/response"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(apperrors.ExitCode(err))
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("expkit", flag.ContinueOnError)
	fs.SetOutput(stdout)

	var configPath, experimentPath string
	fs.StringVar(&configPath, "config", "", "Directory containing expkit.yaml")
	fs.StringVar(&experimentPath, "experiment", "", "Path to the experiment definition (required)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return apperrors.NewInvalidArgument("invalid flags").WithInternal(err)
	}
	if experimentPath == "" {
		return apperrors.NewInvalidArgument("-experiment is required")
	}

	var paths []string
	if configPath != "" {
		paths = append(paths, configPath)
	}
	cfg, err := app.LoadConfig(paths...)
	if err != nil {
		return err
	}

	if err := app.ConfigureLogging(cfg.Log); err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}
	defer logger.Sync() // best effort

	log := logger.WithModule("cli")

	f, err := experiment.Load(experimentPath)
	if err != nil {
		return err
	}

	planner := experiment.NewPlanner(nil, experiment.Defaults{
		Repetitions: cfg.Experiment.Repetitions,
		RandomState: cfg.Experiment.RandomState,
	})
	report, planErr := planner.Plan(ctx, f)

	if cfg.Metrics.Enabled {
		if err := metrics.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			log.Warn("metrics textfile not written", zap.String("path", cfg.Metrics.Textfile), zap.Error(err))
		}
	}
	if planErr != nil {
		log.Error("experiment rejected", zap.String("experiment", experimentPath), zap.Error(planErr))
		if err := response.Error(stdout, planErr); err != nil {
			log.Warn("error payload not written", zap.Error(err))
		}
		return planErr
	}

	return response.Success(stdout, report)
}
