package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rpgo/fiscal-engine/internal/config"
	"github.com/rpgo/fiscal-engine/internal/domain"
	"github.com/rpgo/fiscal-engine/internal/schedule"
	"github.com/rpgo/fiscal-engine/pkg/dateutil"
)

func main() {
	if err := newCalendarCmd(time.Now).Execute(); err != nil {
		os.Exit(1)
	}
}

func newCalendarCmd(now func() time.Time) *cobra.Command {
	var (
		year  int
		today string
		rules string
	)
	cmd := &cobra.Command{
		Use:          "print_calendar",
		Short:        "Print a fiscal year's obligation calendar and reminders",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := domain.DefaultConfiguration()
			if rules != "" {
				loaded, err := config.NewInputParser().LoadFromFile(rules)
				if err != nil {
					return err
				}
				cfg = loaded
			}

			ref := dateutil.DateOnly(now())
			if today != "" {
				parsed, err := dateutil.ParseDate(today)
				if err != nil {
					return err
				}
				ref = parsed
			}
			if year == 0 {
				year = ref.Year()
			}

			printCalendar(cmd.OutOrStdout(), schedule.NewScheduler(cfg), year, ref)
			return nil
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "fiscal year to print; defaults to the year of --today")
	cmd.Flags().StringVar(&today, "today", "", "reference date (YYYY-MM-DD); defaults to the local date")
	cmd.Flags().StringVarP(&rules, "config", "c", "", "optional rule file")
	return cmd
}

func printCalendar(w io.Writer, s *schedule.Scheduler, year int, today time.Time) {
	deadlines := s.Calendar(year, today, nil)
	fmt.Fprintf(w, "Calendar %d as of %s\n", year, today.Format(dateutil.DateLayout))
	for _, d := range deadlines {
		fmt.Fprintf(w, "%-14s due %s  opens %s  %-9s %s\n",
			d.ID, d.DueDate.Format(dateutil.DateLayout), d.ReminderOpenDate.Format(dateutil.DateLayout), d.Status, d.Title)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Reminders:")
	for _, r := range s.Reminders(deadlines, today) {
		fmt.Fprintf(w, "  [%s] %s\n", r.Priority, r.Message)
	}
}
