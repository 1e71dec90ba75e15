package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rpgo/fiscal-engine/internal/config"
	"github.com/rpgo/fiscal-engine/internal/domain"
	"github.com/rpgo/fiscal-engine/internal/store"
	"github.com/rpgo/fiscal-engine/internal/store/sqlite"
	"github.com/rpgo/fiscal-engine/pkg/dateutil"
	"github.com/rpgo/fiscal-engine/pkg/logger"
)

// app carries settings and shared flags across subcommands.
type app struct {
	settings *config.Settings
	log      *logger.Logger

	rulesPath string
	dbPath    string
	today     string

	// now is the only clock in the program; subcommands read it through todayDate.
	now func() time.Time
}

func newRootCmd() *cobra.Command {
	a := &app{now: time.Now}

	root := &cobra.Command{
		Use:           "fiscal",
		Short:         "Tax computation and filing calendar for self-employed taxpayers",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.LoadSettings()
			if err != nil {
				return fmt.Errorf("failed to load settings: %w", err)
			}
			a.settings = settings
			a.log = logger.New(logger.Config{Env: settings.Env, Level: settings.LogLevel})
			if a.rulesPath == "" {
				a.rulesPath = settings.RulesFile
			}
			if a.dbPath == "" {
				a.dbPath = settings.DBPath
			}
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&a.rulesPath, "config", "c", "", "rule file (YAML); defaults to FISCAL_RULES_FILE or the built-in rules")
	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "SQLite file holding filing flags; defaults to FISCAL_DB_PATH")
	root.PersistentFlags().StringVar(&a.today, "today", "", "reference date YYYY-MM-DD; defaults to the local date")

	root.AddCommand(
		newTaxCmd(a),
		newSummaryCmd(a),
		newDeadlinesCmd(a),
		newRemindersCmd(a),
		newFileCmd(a),
		newServeCmd(a),
		newExampleConfigCmd(a),
		newValidateCmd(a),
	)
	return root
}

// savedRulesName is the rule-set name used by `validate --save`
const savedRulesName = "default"

// loadRules reads the rule file. Without one it falls back to the rule set
// saved in an existing database, then to the built-in rules.
func (a *app) loadRules() (*domain.Configuration, error) {
	if a.rulesPath == "" {
		return a.savedRules()
	}
	rules, err := config.NewInputParser().LoadFromFile(a.rulesPath)
	if err != nil {
		return nil, err
	}
	a.log.Debug().Str("path", a.rulesPath).Str("regime", rules.Regime.String()).Msg("rules loaded")
	return rules, nil
}

func (a *app) savedRules() (*domain.Configuration, error) {
	if _, err := os.Stat(a.dbPath); err != nil {
		return domain.DefaultConfiguration(), nil
	}
	st, err := a.openStore()
	if err != nil {
		return nil, err
	}
	defer st.Close()

	rules, err := st.LoadRules(context.Background(), savedRulesName)
	if errors.Is(err, store.ErrRulesNotFound) {
		return domain.DefaultConfiguration(), nil
	}
	if err != nil {
		return nil, err
	}
	a.log.Debug().Str("db", a.dbPath).Msg("using saved rules")
	return rules, nil
}

func (a *app) openStore() (store.FilingStore, error) {
	st, err := sqlite.New(a.dbPath)
	if err != nil {
		return nil, err
	}
	return st, nil
}

func (a *app) todayDate() (time.Time, error) {
	if a.today == "" {
		return dateutil.DateOnly(a.now()), nil
	}
	return dateutil.ParseDate(a.today)
}
