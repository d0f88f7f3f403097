package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/extracto-dev/extracto/internal/export"
	"github.com/extracto-dev/extracto/internal/ingest"
	"github.com/extracto-dev/extracto/internal/model"
)

type parseOptions struct {
	account   string
	format    string
	year      int
	exportDir string
	debug     bool
}

func newParseCommand(a *app) *cobra.Command {
	var opts parseOptions

	cmd := &cobra.Command{
		Use:   "parse [file...]",
		Short: "Parse pasted statement text into the active account",
		Long: `Parse statement text copied from online banking. Each input is one batch:
rows are checked for a single currency matching the account, deduplicated
against stored history, and the new rows are saved. Reads stdin when no file
(or "-") is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer w.Close()

			acct, err := w.account(opts.account)
			if err != nil {
				return err
			}
			svc, err := a.ingester(w, opts.format, opts.year)
			if err != nil {
				return err
			}

			if len(args) == 0 {
				args = []string{"-"}
			}

			sess := ingest.NewSession(acct.ID)
			var batch, dups []model.Transaction
			for _, name := range args {
				text, err := readInput(cmd, name)
				if err != nil {
					return err
				}
				res, runErr := svc.Run(sess, text)
				printResult(cmd.OutOrStdout(), name, res, opts.debug)
				if runErr != nil {
					return runErr
				}
				batch = append(batch, res.New...)
				dups = append(dups, res.Duplicates...)
			}

			if opts.exportDir != "" {
				return exportSession(cmd.OutOrStdout(), opts.exportDir, acct, batch, dups)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.account, "account", "", "account id, alias or number (default: active account)")
	cmd.Flags().StringVar(&opts.format, "format", "linepair", "statement layout")
	cmd.Flags().IntVar(&opts.year, "year", 0, "year for statement dates (default: config reference_year, then current year)")
	cmd.Flags().StringVar(&opts.exportDir, "export-dir", "", "also write the new rows and skipped duplicates as JSON here")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "print parse diagnostics")

	return cmd
}

func readInput(cmd *cobra.Command, name string) (string, error) {
	if name == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", name, err)
	}
	return string(data), nil
}

func printResult(out io.Writer, source string, res ingest.Result, debug bool) {
	if source != "-" {
		fmt.Fprintf(out, "%s:\n", source)
	}
	if res.Verdict != nil {
		msg := res.Verdict.Message
		if !res.Verdict.Passed {
			msg = warnColor.Sprint(msg)
		}
		fmt.Fprintln(out, msg)
	}

	printTransactions(out, res.New, "")
	printTransactions(out, res.Duplicates, "duplicate")

	if res.Success {
		fmt.Fprintln(out, positive.Sprint(res.Message))
	} else {
		fmt.Fprintln(out, negative.Sprint(res.Message))
	}

	if debug && res.Diagnostics != nil {
		data, err := json.MarshalIndent(res.Diagnostics, "", "  ")
		if err == nil {
			fmt.Fprintf(out, "Diagnostics:\n%s\n", data)
		}
	}
}

func exportSession(out io.Writer, dir string, acct model.BankAccount, batch, dups []model.Transaction) error {
	files := []struct {
		name  string
		write func(io.Writer, model.BankAccount, []model.Transaction) error
		txns  []model.Transaction
	}{
		{export.BatchFileName(acct), export.Batch, batch},
		{export.DuplicatesFileName(acct), export.Duplicates, dups},
	}
	for _, f := range files {
		path, err := export.WriteFile(dir, f.name, func(w io.Writer) error {
			return f.write(w, acct, f.txns)
		})
		if errors.Is(err, export.ErrNothingToExport) {
			continue
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote %s\n", path)
	}
	return nil
}
