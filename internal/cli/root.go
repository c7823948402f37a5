// Package cli implements schedctl, the command-line view of a scheduler
// database or JSON backup.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"scheduler/internal/board"
	"scheduler/internal/config"
	"scheduler/internal/models"
	"scheduler/internal/schedule"
	"scheduler/internal/storage/sqlite"
)

type rootOptions struct {
	dbPath       string
	file         string
	horizonWeeks int
	dailyHours   float64
	now          func() time.Time
}

// NewRootCmd builds the schedctl command tree. Flag defaults come from cfg.
func NewRootCmd(cfg config.Config) *cobra.Command {
	opts := &rootOptions{
		dbPath:       cfg.DBPath,
		horizonWeeks: cfg.HorizonWeeks,
		dailyHours:   cfg.DailyHours,
		now:          time.Now,
	}

	rootCmd := &cobra.Command{
		Use:          "schedctl",
		Short:        "Inspect and edit a workload schedule",
		Long:         `schedctl projects tickets onto business days and shows who is over capacity, reading either the scheduler database or a JSON backup.`,
		Version:      "0.1.0",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.dbPath, "db", opts.dbPath, "Path to sqlite database file")
	rootCmd.PersistentFlags().StringVarP(&opts.file, "file", "f", "", "Use a JSON backup instead of the database")

	rootCmd.AddCommand(
		newHeatMapCmd(opts),
		newConflictsCmd(opts),
		newProjectCmd(opts),
		newDelaysCmd(opts),
		newExportCmd(opts),
		newImportCmd(opts),
	)
	return rootCmd
}

// Execute runs schedctl with settings from the environment.
func Execute() error {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return NewRootCmd(cfg).Execute()
}

type stateSource interface {
	Load(ctx context.Context) (models.Snapshot, error)
	Save(ctx context.Context, snap models.Snapshot) error
	Close() error
}

func (o *rootOptions) open() (stateSource, error) {
	if o.file != "" {
		return &fileState{path: o.file}, nil
	}
	if o.dbPath == "" {
		return nil, errors.New("no state source: pass --db or --file")
	}
	store, err := sqlite.Open(o.dbPath, nil)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return store, nil
}

// load reads the snapshot and returns it with its projection config.
func (o *rootOptions) load(ctx context.Context) (models.Snapshot, schedule.Config, error) {
	src, err := o.open()
	if err != nil {
		return models.Snapshot{}, schedule.Config{}, err
	}
	defer src.Close()

	snap, err := src.Load(ctx)
	if err != nil {
		return models.Snapshot{}, schedule.Config{}, err
	}
	return snap, o.config(snap), nil
}

// mutate applies fn to a board over the stored snapshot and saves it.
func (o *rootOptions) mutate(ctx context.Context, fn func(b *board.Board) error) error {
	src, err := o.open()
	if err != nil {
		return err
	}
	defer src.Close()

	snap, err := src.Load(ctx)
	if err != nil {
		return err
	}
	b := board.New(snap, o.now)
	if err := fn(b); err != nil {
		return err
	}
	return src.Save(ctx, b.Snapshot())
}

func (o *rootOptions) config(snap models.Snapshot) schedule.Config {
	cfg := board.ConfigOf(snap.Settings)
	if snap.Settings.DailyHourRate <= 0 && o.dailyHours > 0 {
		cfg.DailyHourRate = o.dailyHours
	}
	return cfg
}
