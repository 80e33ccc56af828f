package cli

import (
	"fmt"

	"example.com/swarmpolicy/lib/platform/ledger"
	"example.com/swarmpolicy/lib/platform/skvstore"
	"github.com/spf13/cobra"
)

func ledgerCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Inspect or fill a persistent download history",
	}
	cmd.PersistentFlags().StringVar(&path, "ledger", "swarmpolicy.skv.db", "skv ledger file")

	importCmd := &cobra.Command{
		Use:   "import [snapshot]...",
		Short: "Append the download rounds of snapshots to the ledger",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLedger(path, func(l *ledger.Ledger) error {
				for _, arg := range args {
					snap, err := readSnapshot(arg)
					if err != nil {
						return err
					}
					for _, downloads := range snap.Downloads {
						if err := l.Record(downloads); err != nil {
							return err
						}
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d rounds\n", l.CurrentRound())
				return nil
			})
		},
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print every recorded round",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLedger(path, func(l *ledger.Ledger) error {
				out := cmd.OutOrStdout()
				for round := 0; round < l.CurrentRound(); round++ {
					fmt.Fprintf(out, "round %d:", round)
					for _, d := range l.Downloads(round) {
						fmt.Fprintf(out, " %s->%s:%d", d.FromID, d.ToID, d.Blocks)
					}
					fmt.Fprintln(out)
				}
				return nil
			})
		},
	}

	cmd.AddCommand(importCmd, showCmd)
	return cmd
}

func withLedger(path string, fn func(*ledger.Ledger) error) error {
	store, err := skvstore.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()
	l, err := ledger.Open(store)
	if err != nil {
		return err
	}
	return fn(l)
}
