package cli

import (
	"fmt"
	"runtime"

	"example.com/swarmpolicy/lib/core/service/policy"
	"example.com/swarmpolicy/lib/platform/dummy"
	"example.com/swarmpolicy/lib/runner"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func checkCmd(opts *options) *cobra.Command {
	var seeds, rounds, workers int
	var only []string
	swarm := dummy.DefaultSwarmConf()

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run every policy on random swarms and verify its decisions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names := only
			if len(names) == 0 {
				names = policy.Names()
			}
			trials := runner.Trials(names, seeds, runner.Trial{
				Seed:   opts.seed,
				Rounds: rounds,
				Swarm:  swarm,
				Params: opts.params,
			})

			bar := progressbar.NewOptions(len(trials),
				progressbar.OptionSetWriter(cmd.ErrOrStderr()),
				progressbar.OptionSetDescription("checking"),
				progressbar.OptionShowCount(),
			)
			r := runner.Runner{
				Workers:  workers,
				OnResult: func(runner.Result) { _ = bar.Add(1) },
			}
			results := r.Start(cmd.Context(), trials)
			_ = bar.Finish()
			fmt.Fprintln(cmd.ErrOrStderr())

			out := cmd.OutOrStdout()
			failed := runner.Failed(results)
			for _, res := range failed {
				fmt.Fprintf(out, "FAIL %s seed %d after %d rounds: %v\n", res.Trial.Policy, res.Trial.Seed, res.Rounds, res.Err)
			}
			fmt.Fprintf(out, "%d trials, %d failed\n", len(results), len(failed))
			if len(failed) > 0 {
				return fmt.Errorf("%d of %d trials failed", len(failed), len(results))
			}
			return nil
		},
	}
	fs := cmd.Flags()
	fs.Int64Var(&opts.seed, "seed", 0, "first random seed")
	bindParams(fs, &opts.params)
	fs.StringSliceVar(&only, "policy", nil, "policies to check (default all)")
	fs.IntVar(&seeds, "seeds", 20, "trials per policy")
	fs.IntVar(&rounds, "rounds", 50, "rounds per trial")
	fs.IntVar(&workers, "workers", runtime.NumCPU(), "trials run at once")
	fs.IntVar(&swarm.Peers, "peers", swarm.Peers, "peers in each swarm")
	fs.IntVar(&swarm.Pieces, "pieces", swarm.Pieces, "pieces in each swarm")
	fs.IntVar(&swarm.BlocksPerPiece, "blocks-per-piece", swarm.BlocksPerPiece, "blocks in each piece")
	fs.IntVar(&swarm.UpBW, "up-bw", swarm.UpBW, "agent upload capacity")
	fs.IntVar(&swarm.MaxRequests, "max-requests", swarm.MaxRequests, "requests per peer per round")
	return cmd
}
