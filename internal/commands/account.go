package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/extracto-dev/extracto/internal/accounts"
)

func newAccountCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage bank accounts",
	}
	cmd.AddCommand(
		newAccountAddCommand(a),
		newAccountListCommand(a),
		newAccountSelectCommand(a),
		newAccountUpdateCommand(a),
		newAccountDeleteCommand(a),
		newAccountShowCommand(a),
	)
	return cmd
}

func newAccountAddCommand(a *app) *cobra.Command {
	var p accounts.AddParams

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a bank account and make it active",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer w.Close()

			acct, err := w.accounts.Add(p)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added account %s (%s)\n", acct.ID, acct.Label())
			return nil
		},
	}

	cmd.Flags().StringVar(&p.BankName, "bank", "", "bank name (required)")
	cmd.Flags().StringVar(&p.AccountHolder, "holder", "", "account holder name (required)")
	cmd.Flags().StringVar(&p.AccountNumber, "number", "", "account number (required)")
	cmd.Flags().StringVar(&p.Currency, "currency", "", "account currency, e.g. PEN, S/., USD")
	cmd.Flags().StringVar(&p.Alias, "alias", "", "short name")
	cmd.Flags().StringVar(&p.AccountType, "type", "", "account type, e.g. ahorros, corriente")

	return cmd
}

func newAccountListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List bank accounts with transaction counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer w.Close()

			all, err := w.accounts.All()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(all) == 0 {
				fmt.Fprintln(out, "No accounts registered.")
				return nil
			}
			activeID, err := w.accounts.ActiveID()
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "  %-42s %-16s %-12s %-16s %-4s %6s  %-10s  %-10s\n", "ID", "ALIAS", "BANK", "NUMBER", "CUR", "COUNT", "OLDEST", "NEWEST")
			for _, acct := range all {
				stats, err := w.accounts.Stats(acct.ID)
				if err != nil {
					return err
				}
				marker := " "
				if acct.ID == activeID {
					marker = activeTag.Sprint("*")
				}
				fmt.Fprintf(out, "%s %-42s %-16s %-12s %-16s %-4s %6d  %-10s  %-10s\n",
					marker, acct.ID, truncate(acct.Alias, 16), truncate(acct.BankName, 12), acct.AccountNumber,
					acct.Currency, stats.Count, orDash(stats.Oldest), orDash(stats.Newest))
			}
			return nil
		},
	}
}

func newAccountSelectCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "select <account>",
		Short: "Make an account active (by id, alias or number)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer w.Close()

			acct, err := w.accounts.Resolve(args[0])
			if err != nil {
				return err
			}
			if err := w.accounts.Select(acct.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Active account: %s\n", acct.Label())
			return nil
		},
	}
}

func newAccountUpdateCommand(a *app) *cobra.Command {
	var p accounts.UpdateParams

	cmd := &cobra.Command{
		Use:   "update <account>",
		Short: "Edit an account; the account number cannot change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer w.Close()

			acct, err := w.accounts.Resolve(args[0])
			if err != nil {
				return err
			}

			// Unset flags keep their current value.
			flags := cmd.Flags()
			merged := accounts.UpdateParams{
				Alias:         acct.Alias,
				BankName:      acct.BankName,
				AccountHolder: acct.AccountHolder,
				Currency:      acct.Currency,
				AccountType:   acct.AccountType,
			}
			if flags.Changed("alias") {
				merged.Alias = p.Alias
			}
			if flags.Changed("bank") {
				merged.BankName = p.BankName
			}
			if flags.Changed("holder") {
				merged.AccountHolder = p.AccountHolder
			}
			if flags.Changed("currency") {
				merged.Currency = p.Currency
			}
			if flags.Changed("type") {
				merged.AccountType = p.AccountType
			}

			updated, err := w.accounts.Update(acct.ID, merged)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated account %s (%s)\n", updated.ID, updated.Label())
			return nil
		},
	}

	cmd.Flags().StringVar(&p.BankName, "bank", "", "bank name")
	cmd.Flags().StringVar(&p.AccountHolder, "holder", "", "account holder name")
	cmd.Flags().StringVar(&p.Currency, "currency", "", "account currency")
	cmd.Flags().StringVar(&p.Alias, "alias", "", "short name")
	cmd.Flags().StringVar(&p.AccountType, "type", "", "account type")

	return cmd
}

func newAccountDeleteCommand(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <account>",
		Short: "Delete an account and all its stored transactions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer w.Close()

			acct, err := w.accounts.Resolve(args[0])
			if err != nil {
				return err
			}
			stats, err := w.accounts.Stats(acct.ID)
			if err != nil {
				return err
			}
			if !yes {
				return fmt.Errorf("deleting %s removes %d stored transaction(s); rerun with --yes to confirm", acct.Label(), stats.Count)
			}

			if err := w.accounts.Delete(acct.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted account %s and %d transaction(s)\n", acct.Label(), stats.Count)
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")

	return cmd
}

func newAccountShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show [account]",
		Short: "Show account details (default: active account)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer w.Close()

			ref := ""
			if len(args) > 0 {
				ref = args[0]
			}
			acct, err := w.account(ref)
			if err != nil {
				return err
			}
			st, err := w.store.LoadTransactions(acct.ID)
			if err != nil {
				return err
			}
			stats := st.Stats()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID:            %s\n", acct.ID)
			fmt.Fprintf(out, "Alias:         %s\n", orDash(acct.Alias))
			fmt.Fprintf(out, "Bank:          %s\n", acct.BankName)
			fmt.Fprintf(out, "Holder:        %s\n", acct.AccountHolder)
			fmt.Fprintf(out, "Number:        %s\n", acct.AccountNumber)
			fmt.Fprintf(out, "Currency:      %s\n", orDash(acct.Currency))
			fmt.Fprintf(out, "Type:          %s\n", orDash(acct.AccountType))
			fmt.Fprintf(out, "Transactions:  %d\n", stats.Count)
			fmt.Fprintf(out, "Date range:    %s to %s\n", orDash(stats.Oldest), orDash(stats.Newest))
			fmt.Fprintf(out, "Net:          %s\n", amount(st.Net()))
			return nil
		},
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
