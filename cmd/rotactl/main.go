/*
main.go - Operator CLI for the rota engine

PURPOSE:
  Runs the engine against a SQLite file without the HTTP server: resolve
  week types, print balances and overtime, apply templates.

COMMANDS:
  rotactl weektype [DATE]
  rotactl balance EMPLOYEE --from DATE --to DATE
  rotactl overtime EMPLOYEE [--date DATE]
  rotactl apply EMPLOYEE [--week-type A|B] [--week-of DATE]
  rotactl rollout [--week-of DATE]

  --db selects the database (ROTA_DB, default rota.db).
*/
package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/clinicrota/rota-engine/config"
	"github.com/clinicrota/rota-engine/generic"
	"github.com/clinicrota/rota-engine/roster"
	"github.com/clinicrota/rota-engine/store/sqlite"
	"github.com/spf13/cobra"
)

var (
	dbPath   string
	logLevel string
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	root := &cobra.Command{
		Use:           "rotactl",
		Short:         "Clinic rota engine: week types, balances and template roll-outs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dbPath, "db", cfg.DBPath, "Path to SQLite database")
	root.PersistentFlags().StringVar(&logLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")

	root.AddCommand(weekTypeCmd(), balanceCmd(), overtimeCmd(), applyCmd(), rolloutCmd())

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openService opens the store and builds a service on it.
func openService() (*roster.Service, func(), error) {
	store, err := sqlite.New(dbPath)
	if err != nil {
		return nil, nil, err
	}
	logger := config.NewLogger(logLevel)
	return roster.NewService(store, logger), func() { store.Close() }, nil
}

func dateOr(s string, fallback generic.TimePoint) (generic.TimePoint, error) {
	if s == "" {
		return fallback, nil
	}
	return generic.ParseDate(s)
}

// =============================================================================
// COMMANDS
// =============================================================================

func weekTypeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "weektype [DATE]",
		Short: "Print the week number and A/B type of a date (today by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := ""
			if len(args) == 1 {
				raw = args[0]
			}
			day, err := dateOr(raw, generic.Today())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  week %d  type %s  (week of %s)\n",
				day, generic.WeekNumber(day), generic.ResolveWeekType(day), generic.WeekOf(day).Start)
			return nil
		},
	}
}

func balanceCmd() *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "balance EMPLOYEE",
		Short: "Reconcile scheduled against performed time over a date range",
		Example: `
  # Current week
  rotactl balance sec-1

  # A month
  rotactl balance asst-1 --from 2025-03-01 --to 2025-03-31
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			week := generic.WeekOf(generic.Today())
			start, err := dateOr(from, week.Start)
			if err != nil {
				return err
			}
			end, err := dateOr(to, week.End)
			if err != nil {
				return err
			}

			svc, closeFn, err := openService()
			if err != nil {
				return err
			}
			defer closeFn()

			b, err := svc.Balance(cmd.Context(), roster.EmployeeID(args[0]), generic.Period{Start: start, End: end})
			if err != nil {
				return err
			}
			printBalance(cmd, b)
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "First day (YYYY-MM-DD, default: this Monday)")
	cmd.Flags().StringVar(&to, "to", "", "Last day (YYYY-MM-DD, default: this Sunday)")
	return cmd
}

func overtimeCmd() *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "overtime EMPLOYEE",
		Short: "Print week, month and year-to-date balances around a date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := dateOr(date, generic.Today())
			if err != nil {
				return err
			}
			svc, closeFn, err := openService()
			if err != nil {
				return err
			}
			defer closeFn()

			o, err := svc.Overtime(cmd.Context(), roster.EmployeeID(args[0]), ref)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "SCOPE\tPERIOD\tACHIEVED\tCONTRACTED\tDIFF\tSTATUS\tDELTA\n")
			for _, s := range roster.Scopes {
				b := o.Week
				switch s {
				case roster.ScopeMonth:
					b = o.Month
				case roster.ScopeYear:
					b = o.YearToDate
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					s, b.Period, b.Achieved, b.Contracted, b.Diff, b.Status, amountOrDash(b.OvertimeDelta))
			}
			w.Flush()
			fmt.Fprintf(cmd.OutOrStdout(), "cumulative balance: %.1f h\n", o.CumulativeBalance)
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Reference day (YYYY-MM-DD, default: today)")
	return cmd
}

func applyCmd() *cobra.Command {
	var weekType, weekOf string
	cmd := &cobra.Command{
		Use:   "apply EMPLOYEE",
		Short: "Create the missing shifts of an A/B template for one week",
		Long: `Create the missing shifts of an employee's A or B template on Monday..Saturday
of the week holding --week-of. Existing shifts and days on leave are skipped,
so running it twice creates nothing the second time.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := dateOr(weekOf, generic.Today())
			if err != nil {
				return err
			}
			var wt generic.WeekType
			if weekType != "" {
				if wt, err = generic.ParseWeekType(weekType); err != nil {
					return err
				}
			}

			svc, closeFn, err := openService()
			if err != nil {
				return err
			}
			defer closeFn()

			res, err := svc.ApplyWeek(cmd.Context(), roster.EmployeeID(args[0]), wt, day)
			if err != nil {
				return err
			}
			printApply(cmd, args[0], res)
			return nil
		},
	}
	cmd.Flags().StringVar(&weekType, "week-type", "", "Template to apply, A or B (default: the week's own type)")
	cmd.Flags().StringVar(&weekOf, "week-of", "", "Any day of the target week (YYYY-MM-DD, default: today)")
	return cmd
}

func rolloutCmd() *cobra.Command {
	var weekOf string
	cmd := &cobra.Command{
		Use:   "rollout",
		Short: "Apply every active employee's template to one week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := dateOr(weekOf, generic.Today().AddDays(7))
			if err != nil {
				return err
			}
			svc, closeFn, err := openService()
			if err != nil {
				return err
			}
			defer closeFn()

			results, err := svc.RolloutWeek(context.WithoutCancel(cmd.Context()), day)
			if err != nil {
				return err
			}
			failed := 0
			for _, r := range results {
				if r.Err != nil {
					failed++
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", r.EmployeeID, r.Err)
					continue
				}
				printApply(cmd, string(r.EmployeeID), r.Result)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d employees failed", failed, len(results))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&weekOf, "week-of", "", "Any day of the target week (YYYY-MM-DD, default: next week)")
	return cmd
}

// =============================================================================
// OUTPUT
// =============================================================================

func printBalance(cmd *cobra.Command, b roster.Balance) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (%s) %s\n", b.EmployeeID, b.Role, b.Period)

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "DATE\tWEEK\tCONTRACTED\tACHIEVED\tLEAVE H\n")
	for _, d := range b.Days {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", d.Date, d.WeekType, d.Contracted, d.Achieved, d.LeaveHours)
	}
	w.Flush()

	fmt.Fprintf(out, "achieved %s / contracted %s => %s (%s)\n", b.Achieved, b.Contracted, b.Diff, b.Status)
	fmt.Fprintf(out, "worked from leave %s, owed %s, repaid %s, leave taken %s\n",
		b.WorkedTimeFromLeave, b.OvertimeOwed, b.OvertimeRepaid, b.LeaveBalanceUnits)
	if b.OvertimeDelta != nil {
		fmt.Fprintf(out, "effective %s, overtime delta %s\n", amountOrDash(b.EffectiveHours), amountOrDash(b.OvertimeDelta))
	}
}

func printApply(cmd *cobra.Command, id string, res roster.ApplyResult) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %s (%d skipped)\n", id, res.Summary(), res.Skipped)
	for _, f := range res.Failures {
		fmt.Fprintf(out, "  %s %s: %s\n", f.Date, f.Slot, f.Reason)
	}
}

func amountOrDash(a *generic.Amount) string {
	if a == nil {
		return "-"
	}
	return a.String()
}
