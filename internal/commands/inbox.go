package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/extracto-dev/extracto/internal/importer"
	"github.com/extracto-dev/extracto/internal/ingest"
)

func newInboxCommand(a *app) *cobra.Command {
	var account string
	var year int

	cmd := &cobra.Command{
		Use:   "inbox",
		Short: "Parse every .txt paste in <data>/import and move it to import/processed",
		Long: `Parse every .txt paste in <data>/import and move it to import/processed.

Pastes directly in import/ go to --account (default: the active account).
Pastes in import/<account>/ go to the account that directory names by id,
alias or number. Blank pastes are archived without parsing. Pastes that fail
stay in the inbox.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer w.Close()

			svc, err := a.ingester(w, "linepair", year)
			if err != nil {
				return err
			}

			pastes, err := importer.Pending(a.dataDir())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(pastes) == 0 {
				fmt.Fprintln(out, "Inbox is empty.")
				return nil
			}

			sessions := make(map[string]*ingest.Session)
			failed := 0
			for _, p := range pastes {
				if p.Blank() {
					fmt.Fprintf(out, "%s: blank paste, skipped.\n", p.Name)
					if err := importer.Archive(a.dataDir(), p); err != nil {
						return err
					}
					continue
				}

				ref := account
				if p.Account != "" {
					ref = p.Account
				}
				acct, err := w.account(ref)
				if err != nil {
					fmt.Fprintf(out, "%s: %v\n", p.Name, err)
					w.log.Error().Err(err).Str("file", p.Name).Msg("inbox file left in place")
					failed++
					continue
				}

				sess, ok := sessions[acct.ID]
				if !ok {
					sess = ingest.NewSession(acct.ID)
					sessions[acct.ID] = sess
				}
				res, runErr := svc.Run(sess, p.Text)
				fmt.Fprintf(out, "%s -> %s\n", p.Name, acct.Label())
				printResult(out, "-", res, false)
				if runErr != nil {
					w.log.Error().Err(runErr).Str("file", p.Name).Str("account_id", acct.ID).Msg("inbox file left in place")
					failed++
					continue
				}
				if err := importer.Archive(a.dataDir(), p); err != nil {
					return err
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d inbox file(s) failed", failed, len(pastes))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "account for pastes in the inbox root (default: active account)")
	cmd.Flags().IntVar(&year, "year", 0, "year for statement dates (default: config reference_year, then current year)")

	return cmd
}
