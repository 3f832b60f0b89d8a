// Command paytrack-cli inspects and moves a user's data through the
// configured store.
//
//	paytrack-cli period [-user U] [-date YYYY-MM-DD]
//	paytrack-cli export -user U [-view biweek|month|year] [-date YYYY-MM-DD] [-o file]
//	paytrack-cli import -user U -file report.csv
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"paytrack/internal/calendar"
	"paytrack/internal/cli"
	"paytrack/internal/core"
	"paytrack/internal/export"
	"paytrack/internal/live"
	applog "paytrack/internal/log"
	"paytrack/internal/services"
	"paytrack/internal/store"
)

const usage = `usage: paytrack-cli <command> [flags]

commands:
  period   print the pay period containing a date
  export   write a CSV report for a view
  import   load transactions from a CSV report
`

// app is everything a subcommand needs.
type app struct {
	store    store.Store
	notifier services.Notifier
	loc      *time.Location
	now      func() time.Time
	stdout   io.Writer
}

func main() {
	cli.LoadEnvFile()
	logger := applog.New(applog.Config{
		Level:     applog.ParseLevel(os.Getenv("LOG_LEVEL")),
		Component: applog.ComponentCLI,
		Output:    os.Stderr,
	})
	applog.SetDefault(logger)

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := cli.LoadAndValidateConfig(logger)
	ctx := context.Background()
	backendRes := cli.OpenStore(ctx, logger, cfg)
	defer backendRes.Close()

	a := &app{store: backendRes.Store, loc: cfg.Location(), now: time.Now, stdout: os.Stdout}
	if client := cli.OpenAMQPPublisher(logger, cfg); client != nil {
		defer client.Close()
		a.notifier = client
	}

	if err := a.run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		logger.Error("Command failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("missing command")
	}
	switch args[0] {
	case "period":
		return a.period(ctx, args[1:])
	case "export":
		return a.export(ctx, args[1:])
	case "import":
		return a.importCSV(ctx, args[1:])
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func (a *app) today() core.Date {
	return core.Today(a.now(), a.loc)
}

func parseDateFlag(s string, def core.Date) (core.Date, error) {
	if s == "" {
		return def, nil
	}
	return core.ParseDate(s)
}

func (a *app) period(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("period", flag.ContinueOnError)
	user := fs.String("user", "", "user whose anchor to use (default anchor when empty)")
	date := fs.String("date", "", "date inside the period (default today)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	d, err := parseDateFlag(*date, a.today())
	if err != nil {
		return err
	}
	settings := core.DefaultSettings()
	if *user != "" {
		if settings, err = a.store.GetSettings(ctx, *user); err != nil {
			return core.WrapStore("get settings", err)
		}
	}
	anchor := calendar.ResolveAnchor(settings)
	w, err := calendar.WindowFor(d, anchor)
	if err != nil {
		return err
	}
	label, err := calendar.PeriodLabel(w.Start, anchor)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, label)
	return nil
}

func (a *app) export(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	user := fs.String("user", "", "user id (required)")
	view := fs.String("view", "biweek", "biweek, month or year")
	date := fs.String("date", "", "selected date (default today)")
	out := fs.String("o", "", "output file (default stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *user == "" {
		return errors.New("export: -user is required")
	}

	v, err := core.ParseView(*view)
	if err != nil {
		return err
	}
	d, err := parseDateFlag(*date, a.today())
	if err != nil {
		return err
	}

	w := a.stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			return fmt.Errorf("create %s: %w", *out, err)
		}
		defer f.Close()
		w = f
	}

	dashboard := services.NewDashboardService(live.NewLoader(a.store, nil))
	return dashboard.ExportCSV(ctx, w, *user, v, d)
}

func (a *app) importCSV(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	user := fs.String("user", "", "user id (required)")
	file := fs.String("file", "", "CSV report to import (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *user == "" || *file == "" {
		return errors.New("import: -user and -file are required")
	}

	f, err := os.Open(*file)
	if err != nil {
		return fmt.Errorf("open %s: %w", *file, err)
	}
	defer f.Close()

	txs, err := export.ReadTransactionsCSV(f)
	if err != nil {
		return fmt.Errorf("read %s: %w", *file, err)
	}
	ledger := services.NewLedgerService(a.store, a.notifier)
	n, err := ledger.ImportTransactions(ctx, *user, txs)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "imported %d transactions for %s\n", n, *user)
	return nil
}
