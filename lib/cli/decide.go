package cli

import (
	"fmt"
	"os"

	"example.com/swarmpolicy/lib/core/adapter/history"
	"example.com/swarmpolicy/lib/core/domain"
	"example.com/swarmpolicy/lib/core/service/policy"
	"example.com/swarmpolicy/lib/core/service/session"
	"example.com/swarmpolicy/lib/platform/ledger"
	"example.com/swarmpolicy/lib/platform/mathrand"
	"example.com/swarmpolicy/lib/platform/mem"
	"example.com/swarmpolicy/lib/platform/skvstore"
	"github.com/spf13/cobra"
)

func decideCmd(opts *options) *cobra.Command {
	var ledgerPath string
	cmd := &cobra.Command{
		Use:   "decide [snapshot]",
		Short: "Run one round of a policy on a bencoded snapshot",
		Long: `Reads a bencoded round snapshot and prints the requests and uploads the
chosen policy makes, as JSON. History comes from the snapshot unless a
ledger is given; the policy is first walked through the rounds already in
it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := readSnapshot(args[0])
			if err != nil {
				return err
			}
			peers, err := snap.PeerViews()
			if err != nil {
				return err
			}

			var h history.History = mem.NewHistory(snap.Downloads...)
			if ledgerPath != "" {
				store, err := skvstore.Open(ledgerPath)
				if err != nil {
					return err
				}
				defer store.Close()
				l, err := ledger.Open(store)
				if err != nil {
					return err
				}
				h = l
			}

			p, err := policy.New(opts.policy, opts.params, mathrand.New(opts.seed))
			if err != nil {
				return err
			}
			agent := snap.ToAgent()
			if err := policy.Replay(p, agent, peers, h); err != nil {
				return err
			}
			reqs := p.Requests(agent, peers, h)
			uploads, err := p.Uploads(agent, snap.Requests, peers, h)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), session.Decision{Requests: reqs, Uploads: uploads})
		},
	}
	bindPolicy(cmd.Flags(), opts)
	cmd.Flags().StringVar(&ledgerPath, "ledger", "", "skv ledger file to take history from")
	return cmd
}

func readSnapshot(path string) (domain.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Snapshot{}, err
	}
	defer f.Close()
	snap, err := domain.ParseSnapshot(f)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("%s: %w", path, err)
	}
	return snap, nil
}
