package commands

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/extracto-dev/extracto/internal/accounts"
	"github.com/extracto-dev/extracto/internal/config"
	"github.com/extracto-dev/extracto/internal/importer"
	"github.com/extracto-dev/extracto/internal/ingest"
	"github.com/extracto-dev/extracto/internal/logger"
	"github.com/extracto-dev/extracto/internal/model"
	"github.com/extracto-dev/extracto/internal/store"
)

// app holds what every subcommand resolves from the global flags.
type app struct {
	configPath string
	logLevel   string

	cfg  *config.Config
	base string // directory holding the config file
}

func (a *app) load(cmd *cobra.Command) error {
	absPath, err := filepath.Abs(a.configPath)
	if err != nil {
		return fmt.Errorf("resolving config path: %w", err)
	}
	a.base = filepath.Dir(absPath)

	cfg, err := config.LoadOrDefault(absPath)
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(filepath.Join(a.base, ".env")); err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	a.cfg = cfg

	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	log, err := logger.Build(cmd.ErrOrStderr(), cfg.Log.Format, level)
	if err != nil {
		return err
	}
	cmd.SetContext(logger.WithContext(cmd.Context(), log))
	return nil
}

func (a *app) dataDir() string {
	return a.cfg.DataPath(a.base)
}

// workspace is an open store plus the services built on it.
type workspace struct {
	store    *store.Local
	accounts *accounts.Service
	log      zerolog.Logger
}

func (a *app) open(cmd *cobra.Command) (*workspace, error) {
	log := logger.FromContext(cmd.Context())
	l, err := store.Open(a.cfg.DatabasePath(a.base), log)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("database", a.cfg.DatabasePath(a.base)).Msg("store opened")
	return &workspace{store: l, accounts: accounts.NewService(l), log: log}, nil
}

func (w *workspace) Close() error {
	return w.store.Close()
}

// ingester builds the parse pipeline for the named statement format. year 0
// falls back to the configured reference year, then to the current year.
func (a *app) ingester(w *workspace, format string, year int) (*ingest.Service, error) {
	if year == 0 {
		year = a.cfg.ReferenceYear
	}
	reg := importer.DefaultRegistry(year)
	parser := reg.Get(format)
	if parser == nil {
		return nil, fmt.Errorf("unknown statement format %q (available: %s)", format, strings.Join(reg.Formats(), ", "))
	}
	svc := ingest.NewService(w.store, parser, w.log)
	svc.RunLogDir = a.dataDir()
	return svc, nil
}

var errNoActiveAccount = errors.New("no active account; add one with `extracto account add` or pick one with `extracto account select`")

// account resolves ref (id, alias or number), or the active account when ref
// is empty.
func (w *workspace) account(ref string) (model.BankAccount, error) {
	if ref != "" {
		return w.accounts.Resolve(ref)
	}
	acct, ok, err := w.accounts.Active()
	if err != nil {
		return model.BankAccount{}, err
	}
	if !ok {
		return model.BankAccount{}, errNoActiveAccount
	}
	return acct, nil
}

var (
	negative  = color.New(color.FgRed)
	positive  = color.New(color.FgGreen)
	dupTag    = color.New(color.BgYellow, color.FgBlack)
	activeTag = color.New(color.FgGreen, color.Bold)
	warnColor = color.New(color.FgYellow)
)

// amount renders a right-aligned amount, red when negative and green otherwise.
func amount(d decimal.Decimal) string {
	s := fmt.Sprintf("%12s", d.StringFixed(2))
	if d.IsNegative() {
		return negative.Sprint(s)
	}
	return positive.Sprint(s)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// printTransactions writes one line per transaction. tag, when set, is shown
// after every row.
func printTransactions(out io.Writer, txns []model.Transaction, tag string) {
	for _, t := range txns {
		line := fmt.Sprintf("%-20s %-40s %s %-3s", truncate(t.DisplayDate(), 20), truncate(t.Descripcion, 40), amount(t.Amount()), t.Currency)
		line = strings.TrimRight(line, " ")
		if tag != "" {
			line += " " + dupTag.Sprintf(" %s ", tag)
		}
		fmt.Fprintln(out, line)
	}
}
