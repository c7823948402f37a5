package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"scheduler/internal/analysis"
	"scheduler/internal/board"
	"scheduler/internal/calendar"
	"scheduler/internal/capacity"
	"scheduler/internal/report"
	"scheduler/internal/transfer"
)

var exportFormats = []string{"json", "csv", "people-csv", "pdf"}

func newExportCmd(opts *rootOptions) *cobra.Command {
	var format, output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the schedule as JSON, CSV or a PDF report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, cfg, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create %s: %w", output, err)
				}
				defer f.Close()
				w = f
			}

			switch format {
			case "json":
				return transfer.EncodeSnapshot(w, snap)
			case "csv":
				return transfer.WriteTicketsCSV(w, snap.Tickets, cfg)
			case "people-csv":
				return transfer.WritePeopleCSV(w, snap.People)
			case "pdf":
				delays := analysis.Delays(snap.Tickets, cfg)
				return report.WriteHeatMapPDF(w, report.PDFInput{
					HeatMap: capacity.ComputeHeatMap(snap.Tickets, snap.People, cfg, capacity.Options{
						HorizonWeeks: opts.horizonWeeks,
						Today:        calendar.Today(opts.now),
					}),
					Conflicts: capacity.FindP1Conflicts(snap.Tickets, cfg),
					Delays:    &delays,
				})
			default:
				return fmt.Errorf("unknown format %q (want one of %s)", format, strings.Join(exportFormats, ", "))
			}
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "Output format: "+strings.Join(exportFormats, ", "))
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	return cmd
}

func newImportCmd(opts *rootOptions) *cobra.Command {
	var people bool
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Merge a CSV sheet or replace the state with a JSON backup",
		Long: `Import a file into the schedule.

A .json backup replaces the whole state. A .csv sheet is merged: tickets
with a known id are replaced, the rest are added with fresh ids. With
--people the sheet is a roster merged by name.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("open %s: %w", path, err)
			}
			defer f.Close()

			if strings.EqualFold(filepath.Ext(path), ".json") {
				snap, err := transfer.DecodeSnapshot(f)
				if err != nil {
					return err
				}
				if err := opts.mutate(cmd.Context(), func(b *board.Board) error {
					*b = *board.New(snap, opts.now)
					return nil
				}); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "restored %d tickets and %d people\n", len(snap.Tickets), len(snap.People))
				return nil
			}

			var res board.ImportResult
			if people {
				roster, err := transfer.ReadPeopleCSV(f)
				if err != nil {
					return err
				}
				err = opts.mutate(cmd.Context(), func(b *board.Board) error {
					res = b.ImportPeople(roster)
					return nil
				})
				if err != nil {
					return err
				}
			} else {
				tickets, err := transfer.ReadTicketsCSV(f)
				if err != nil {
					return err
				}
				err = opts.mutate(cmd.Context(), func(b *board.Board) error {
					res = b.ImportTickets(tickets)
					return nil
				})
				if err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %d, updated %d\n", res.Added, res.Updated)
			return nil
		},
	}
	cmd.Flags().BoolVar(&people, "people", false, "Treat the CSV as a roster")
	return cmd
}
