package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"scheduler/internal/analysis"
	"scheduler/internal/board"
	"scheduler/internal/calendar"
	"scheduler/internal/capacity"
	"scheduler/internal/models"
	"scheduler/internal/report"
	"scheduler/internal/schedule"
)

func newHeatMapCmd(opts *rootOptions) *cobra.Command {
	var anchor string
	var weeks int
	cmd := &cobra.Command{
		Use:   "heatmap",
		Short: "Show weekly utilization per person",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := calendar.Parse(anchor)
			if err != nil {
				return fmt.Errorf("--anchor: %w", err)
			}
			if weeks <= 0 {
				weeks = opts.horizonWeeks
			}
			snap, cfg, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}
			hm := capacity.ComputeHeatMap(snap.Tickets, snap.People, cfg, capacity.Options{
				HorizonWeeks: weeks,
				Anchor:       start,
				Today:        calendar.Today(opts.now),
			})
			fmt.Fprint(cmd.OutOrStdout(), report.RenderHeatMap(hm))
			for _, e := range hm.Errors {
				fmt.Fprintf(cmd.ErrOrStderr(), "skipped: %v\n", e)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&anchor, "anchor", "", "First week shown (YYYY-MM-DD); defaults to the earliest ticket start")
	cmd.Flags().IntVar(&weeks, "weeks", 0, "Number of weeks shown")
	return cmd
}

func newConflictsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "conflicts",
		Short: "List overlapping P1 tickets that share people",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, cfg, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), report.RenderConflicts(capacity.FindP1Conflicts(snap.Tickets, cfg)))
			return nil
		},
	}
}

func newProjectCmd(opts *rootOptions) *cobra.Command {
	var person, status string
	cmd := &cobra.Command{
		Use:   "project",
		Short: "List tickets with their projected dates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := board.TicketFilter{Person: person}
			if status != "" {
				st, err := models.ParseStatus(status)
				if err != nil {
					return err
				}
				filter.Status = st
			}
			snap, cfg, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}
			tickets := board.FilterTickets(snap.Tickets, filter)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tPRIORITY\tSTATUS\tSIZE\tASSIGNED\tSTART\tEND\tDAYS\tDESCRIPTION")
			for i, res := range schedule.ProjectAll(tickets, cfg) {
				t := tickets[i]
				p := res.Projection
				end, days := p.EndLabel(), fmt.Sprint(p.DurationBusinessDays)
				if res.Err != nil {
					end, days = "error", "-"
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					t.ID, t.Priority, t.Status, t.Size,
					strings.Join(t.Assigned, ", "),
					t.StartDate, end, days, t.Description,
				)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&person, "person", "", "Only tickets assigned to this person")
	cmd.Flags().StringVar(&status, "status", "", "Only tickets with this status")
	return cmd
}

func newDelaysCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delays",
		Short: "Compare completed tickets with their planned end dates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, cfg, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}
			rep := analysis.Delays(snap.Tickets, cfg)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tPLANNED\tCOMPLETED\tLATE\tSLIPS\tDESCRIPTION")
			for _, d := range rep.Delays {
				fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\t%s\n",
					d.TicketID, d.PlannedEnd, d.CompletedDate, d.BusinessDaysLate, d.EndDateSlips, d.Description)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			s := rep.Summary
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d completed, %d on time, %d late, average delay %.1f business days\n",
				s.Completed, s.OnTime, s.Late, s.AverageDelay)
			return nil
		},
	}
}
