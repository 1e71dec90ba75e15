package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rpgo/fiscal-engine/internal/api"
	"github.com/rpgo/fiscal-engine/internal/calculation"
	"github.com/rpgo/fiscal-engine/internal/config"
	"github.com/rpgo/fiscal-engine/internal/domain"
	"github.com/rpgo/fiscal-engine/internal/output"
	"github.com/rpgo/fiscal-engine/internal/schedule"
	"github.com/rpgo/fiscal-engine/internal/store"
	"gopkg.in/yaml.v3"
)

func newTaxCmd(a *app) *cobra.Command {
	var (
		period, income, expense, vatCollected, vatDeductible, format string
		fromGross                                                    bool
	)
	cmd := &cobra.Command{
		Use:   "tax",
		Short: "Compute taxable base, income tax and VAT balance for one period",
		RunE: func(cmd *cobra.Command, args []string) error {
			rules, err := a.loadRules()
			if err != nil {
				return err
			}
			engine, err := calculation.NewTaxEngine(rules)
			if err != nil {
				return err
			}
			engine.SetLogger(a.log)

			amounts, err := parseAmounts(map[string]string{
				"income": income, "expense": expense,
				"vat-collected": vatCollected, "vat-deductible": vatDeductible,
			})
			if err != nil {
				return err
			}

			figures := domain.PeriodFigures{
				PeriodID:          period,
				GrossIncome:       amounts["income"],
				DeductibleExpense: amounts["expense"],
				VATCollected:      amounts["vat-collected"],
				VATDeductible:     amounts["vat-deductible"],
			}
			if fromGross {
				figures = engine.FiguresFromGross(period, amounts["income"], amounts["expense"])
			}

			result := engine.Calculate(figures)
			if output.NormalizeFormatName(format) == "json" {
				return writeJSON(cmd, domain.PeriodResult{Figures: figures, Result: result})
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Period:         %s\n", figures.PeriodID)
			fmt.Fprintf(w, "Regime:         %s\n", rules.Regime)
			fmt.Fprintf(w, "Income:         %s\n", output.FormatCurrency(figures.GrossIncome))
			fmt.Fprintf(w, "Expenses:       %s\n", output.FormatCurrency(figures.DeductibleExpense))
			fmt.Fprintf(w, "Taxable base:   %s\n", output.FormatCurrency(result.TaxableBase))
			fmt.Fprintf(w, "Income tax:     %s (effective %s)\n", output.FormatCurrency(result.BracketTax), output.FormatPercentage(result.EffectiveRate))
			fmt.Fprintf(w, "VAT balance:    %s %s\n", output.FormatCurrency(result.VATNet.Amount), result.VATNet.Direction)
			fmt.Fprintf(w, "Total taxes:    %s\n", output.FormatCurrency(result.TotalTaxes))
			fmt.Fprintf(w, "Net income:     %s\n", output.FormatCurrency(result.NetIncome))
			return nil
		},
	}
	cmd.Flags().StringVar(&period, "period", "period", "period label")
	cmd.Flags().StringVar(&income, "income", "0", "gross income")
	cmd.Flags().StringVar(&expense, "expense", "0", "deductible expense")
	cmd.Flags().StringVar(&vatCollected, "vat-collected", "0", "VAT collected on sales")
	cmd.Flags().StringVar(&vatDeductible, "vat-deductible", "0", "VAT paid on purchases")
	cmd.Flags().BoolVar(&fromGross, "from-gross", false, "treat income and expense as VAT-inclusive and derive both VAT figures")
	cmd.Flags().StringVarP(&format, "format", "f", "console", "console or json")
	return cmd
}

func newSummaryCmd(a *app) *cobra.Command {
	var format, outputDir string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Compute every period in the rule file and print the annual summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			rules, err := a.loadRules()
			if err != nil {
				return err
			}
			if len(rules.Periods) == 0 {
				return fmt.Errorf("rule file has no periods to summarize")
			}
			engine, err := calculation.NewTaxEngine(rules)
			if err != nil {
				return err
			}
			engine.SetLogger(a.log)

			summary, err := engine.Summarize(cmd.Context(), rules.Year, rules.Periods)
			if err != nil {
				return err
			}
			report := &output.Report{Year: rules.Year, Rules: rules, Summary: &summary}
			if outputDir == "" {
				return output.Render(cmd.OutOrStdout(), report, format)
			}

			formatter, err := output.LookupFormatter(format)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(outputDir, 0o755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
			path, err := output.WriteFormatted(formatter, report, outputDir, a.now())
			if err != nil {
				return fmt.Errorf("failed to write report: %w", err)
			}
			a.log.Info().Str("path", path).Str("format", formatter.Name()).Msg("report written")
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "console", "console, csv or json")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "write the report to a timestamped file in this directory instead of stdout")
	return cmd
}

func newDeadlinesCmd(a *app) *cobra.Command {
	var (
		year   int
		format string
	)
	cmd := &cobra.Command{
		Use:   "deadlines",
		Short: "List a fiscal year's filing deadlines with their status",
		RunE: func(cmd *cobra.Command, args []string) error {
			tracker, st, today, err := a.tracker()
			if err != nil {
				return err
			}
			defer st.Close()
			if year == 0 {
				year = today.Year()
			}

			deadlines, err := tracker.Calendar(cmd.Context(), year, today)
			if err != nil {
				return err
			}
			report := &output.Report{Year: year, Today: today, Deadlines: deadlines}
			return output.Render(cmd.OutOrStdout(), report, format)
		},
	}
	cmd.Flags().IntVarP(&year, "year", "y", 0, "fiscal year; defaults to the current year")
	cmd.Flags().StringVarP(&format, "format", "f", "console", "console, deadlines-csv or json")
	return cmd
}

func newRemindersCmd(a *app) *cobra.Command {
	var (
		year   int
		format string
	)
	cmd := &cobra.Command{
		Use:   "reminders",
		Short: "Show the deadlines that need attention now",
		RunE: func(cmd *cobra.Command, args []string) error {
			tracker, st, today, err := a.tracker()
			if err != nil {
				return err
			}
			defer st.Close()
			if year == 0 {
				year = today.Year()
			}

			reminders, err := tracker.FeedForYear(cmd.Context(), year, today)
			if err != nil {
				return err
			}
			report := &output.Report{Year: year, Today: today, Reminders: reminders}
			return output.Render(cmd.OutOrStdout(), report, format)
		},
	}
	cmd.Flags().IntVarP(&year, "year", "y", 0, "fiscal year; defaults to the current year")
	cmd.Flags().StringVarP(&format, "format", "f", "console", "console or json")
	return cmd
}

func newFileCmd(a *app) *cobra.Command {
	var undo bool
	cmd := &cobra.Command{
		Use:   "file <deadline-id>",
		Short: "Mark a deadline as filed (or undo with --undo)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			tracker, st, today, err := a.tracker()
			if err != nil {
				return err
			}
			defer st.Close()

			year, err := schedule.FiscalYearOf(id)
			if err != nil {
				return err
			}
			deadlines, err := tracker.Calendar(cmd.Context(), year, today)
			if err != nil {
				return err
			}
			updated, err := schedule.MarkFiled(deadlines, id, !undo, today)
			if err != nil {
				return err
			}

			if err := st.SetFiled(cmd.Context(), store.NewFilingRecord(id, year, !undo, a.now())); err != nil {
				return err
			}

			d, _ := schedule.Find(updated, id)
			a.log.Info().Str("deadline_id", id).Bool("filed", !undo).Msg("filing recorded")
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s [%s]\n", d.ID, d.Title, d.Status)
			return nil
		},
	}
	cmd.Flags().BoolVar(&undo, "undo", false, "clear the filed flag instead of setting it")
	return cmd
}

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the engine and filing calendar over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.settings.HTTPAddr
			}
			rules, err := a.loadRules()
			if err != nil {
				return err
			}
			st, err := a.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			handler := api.NewHandler(rules, st, a.log)
			server := &http.Server{
				Addr:         addr,
				Handler:      api.NewRouter(handler, a.log),
				ReadTimeout:  15 * time.Second,
				WriteTimeout: 15 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				a.log.Info().Str("addr", addr).Str("db", a.dbPath).Msg("server starting")
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			a.log.Info().Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address; defaults to FISCAL_HTTP_ADDR")
	return cmd
}

func newExampleConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "example-config [path]",
		Short: "Write an example rule file (to stdout when no path is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parser := config.NewInputParser()
			example := parser.CreateExampleConfiguration()
			if len(args) == 1 {
				if err := parser.SaveConfiguration(example, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "example rule file written to %s\n", args[0])
				return nil
			}
			data, err := yaml.Marshal(example)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func newValidateCmd(a *app) *cobra.Command {
	var save bool
	cmd := &cobra.Command{
		Use:   "validate <path>",
		Short: "Check a rule file without computing anything",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rules, err := config.NewInputParser().LoadFromFile(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: valid (%s regime, %d brackets, %d periods)\n",
				args[0], rules.Regime, len(rules.Brackets), len(rules.Periods))
			if !save {
				return nil
			}

			st, err := a.openStore()
			if err != nil {
				return err
			}
			defer st.Close()
			if err := st.SaveRules(cmd.Context(), savedRulesName, rules); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved to %s\n", a.dbPath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "store the rules in the database for later runs without --config")
	return cmd
}

// tracker opens the filing store and builds a tracker over the loaded rules.
// The caller closes the store.
func (a *app) tracker() (*schedule.Tracker, store.FilingStore, time.Time, error) {
	today, err := a.todayDate()
	if err != nil {
		return nil, nil, time.Time{}, err
	}
	rules, err := a.loadRules()
	if err != nil {
		return nil, nil, time.Time{}, err
	}
	st, err := a.openStore()
	if err != nil {
		return nil, nil, time.Time{}, err
	}
	return schedule.NewTracker(schedule.NewScheduler(rules), st), st, today, nil
}

func parseAmounts(raw map[string]string) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal, len(raw))
	for name, s := range raw {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return nil, fmt.Errorf("--%s: %q is not a number", name, s)
		}
		out[name] = d
	}
	return out, nil
}

func writeJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
