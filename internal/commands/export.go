package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/extracto-dev/extracto/internal/export"
	"github.com/extracto-dev/extracto/internal/model"
)

func newExportCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write stored transactions to files",
	}
	cmd.AddCommand(
		newExportFileCommand(a, "all", "Write every stored transaction as JSON", export.AllFileName, export.All),
		newExportFileCommand(a, "csv", "Write every stored transaction as CSV", export.CSVFileName,
			func(w io.Writer, _ model.BankAccount, txns []model.Transaction) error {
				return export.WriteCSV(w, txns)
			}),
	)
	return cmd
}

func newExportFileCommand(
	a *app,
	use, short string,
	fileName func(model.BankAccount) string,
	write func(io.Writer, model.BankAccount, []model.Transaction) error,
) *cobra.Command {
	var account, dir string

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer w.Close()

			acct, err := w.account(account)
			if err != nil {
				return err
			}
			st, err := w.store.LoadTransactions(acct.ID)
			if err != nil {
				return err
			}
			if len(st.Transactions) == 0 {
				return fmt.Errorf("no stored transactions for %s: %w", acct.Label(), export.ErrNothingToExport)
			}

			if dir == "" {
				dir = a.cfg.ExportPath(a.base)
			}
			path, err := export.WriteFile(dir, fileName(acct), func(out io.Writer) error {
				return write(out, acct, st.Transactions)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d transaction(s) to %s\n", len(st.Transactions), path)
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "account id, alias or number (default: active account)")
	cmd.Flags().StringVar(&dir, "dir", "", "output directory (default: config export.dir)")

	return cmd
}
