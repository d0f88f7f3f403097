package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/extracto-dev/extracto/internal/dedup"
	"github.com/extracto-dev/extracto/internal/id"
	"github.com/extracto-dev/extracto/internal/ingest"
	"github.com/extracto-dev/extracto/internal/logger"
)

const dateFlagFormat = "2006-01-02"

func newTransactionsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"tx"},
		Short:   "Inspect and clear stored transactions",
	}
	cmd.AddCommand(
		newTransactionsListCommand(a),
		newTransactionsClearCommand(a),
		newTransactionsClearRangeCommand(a),
	)
	return cmd
}

func newTransactionsListCommand(a *app) *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored transactions in arrival order",
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

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n", acct.Label())
			if len(st.Transactions) == 0 {
				fmt.Fprintln(out, "No stored transactions.")
				return nil
			}
			printTransactions(out, st.Transactions, "")
			fmt.Fprintf(out, "%d transaction(s), net %s\n", len(st.Transactions), amount(st.Net()))
			if conflicts := dedup.Validate(st.Transactions); len(conflicts) > 0 {
				fmt.Fprintln(out, warnColor.Sprintf("%d stored record(s) repeat an earlier identity key", len(conflicts)))
			}
			for _, txn := range st.Transactions {
				if id.IsNullDateKey(txn.UUID) {
					fmt.Fprintln(out, warnColor.Sprintf("An undated record holds key %s; further undated rows will be skipped as duplicates.", txn.UUID))
					break
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "account id, alias or number (default: active account)")

	return cmd
}

func newTransactionsClearCommand(a *app) *cobra.Command {
	var account string
	var yes, allAccounts bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every stored transaction of an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer w.Close()

			if allAccounts {
				if !yes {
					return fmt.Errorf("rerun with --yes to delete the stored transactions of every account")
				}
				n, err := w.store.ClearAllTransactions()
				if err != nil {
					return err
				}
				log := logger.FromContext(cmd.Context())
				log.Info().Int("accounts", n).Msg("cleared transactions of all accounts")
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared transactions of %d account(s).\n", n)
				return nil
			}

			acct, err := w.account(account)
			if err != nil {
				return err
			}
			if !yes {
				return fmt.Errorf("rerun with --yes to delete all stored transactions of %s", acct.Label())
			}

			svc, err := a.ingester(w, "linepair", 0)
			if err != nil {
				return err
			}
			n, err := svc.ClearAll(acct.ID)
			if err != nil {
				return err
			}
			if n == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No transactions to clear.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d transaction(s).\n", n)
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "account id, alias or number (default: active account)")
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")
	cmd.Flags().BoolVar(&allAccounts, "all-accounts", false, "delete the stored transactions of every account")
	cmd.MarkFlagsMutuallyExclusive("account", "all-accounts")

	return cmd
}

func newTransactionsClearRangeCommand(a *app) *cobra.Command {
	var account, from, to string

	cmd := &cobra.Command{
		Use:   "clear-range",
		Short: "Delete stored transactions dated within --from and --to (inclusive days)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			start, err := parseDateFlag("from", from)
			if err != nil {
				return err
			}
			end, err := parseDateFlag("to", to)
			if err != nil {
				return err
			}
			if start == nil && end == nil {
				return ingest.ErrNoRange
			}

			w, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer w.Close()

			acct, err := w.account(account)
			if err != nil {
				return err
			}
			svc, err := a.ingester(w, "linepair", 0)
			if err != nil {
				return err
			}
			n, err := svc.ClearRange(acct.ID, start, end)
			if err != nil {
				return err
			}
			if n == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No transactions matched the selected range.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d transaction(s).\n", n)
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "account id, alias or number (default: active account)")
	cmd.Flags().StringVar(&from, "from", "", "first day to clear, YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "last day to clear, YYYY-MM-DD")

	return cmd
}

func parseDateFlag(name, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	d, err := time.Parse(dateFlagFormat, value)
	if err != nil {
		return nil, fmt.Errorf("--%s: expected YYYY-MM-DD, got %q", name, value)
	}
	return &d, nil
}
