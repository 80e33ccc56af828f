package cli

import (
	"encoding/json"
	"io"

	"example.com/swarmpolicy/lib/core/service/policy"
	"example.com/swarmpolicy/lib/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type options struct {
	logRule string
	policy  string
	seed    int64
	params  policy.Params
}

// Root builds the swarmpolicy command tree. Each call returns fresh flags.
func Root() *cobra.Command {
	opts := &options{params: policy.DefaultParams()}
	root := &cobra.Command{
		Use:           "swarmpolicy",
		Short:         "Piece request and upload allocation policies for swarm peers",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.logRule == "" {
				return nil
			}
			return logger.SetRule(opts.logRule)
		},
	}
	root.PersistentFlags().StringVar(&opts.logRule, "log", "", "zapfilter rule, e.g. \"debug+:policy\" (default from "+logger.RuleEnv+")")

	root.AddCommand(
		decideCmd(opts),
		ledgerCmd(),
		serveCmd(),
		checkCmd(opts),
	)
	return root
}

func Execute() error {
	return Root().Execute()
}

// bindPolicy adds the policy choice and every tuning knob to fs.
func bindPolicy(fs *pflag.FlagSet, opts *options) {
	fs.StringVarP(&opts.policy, "policy", "p", policy.NameStd, "policy: std, propshare, tourney or tyrant")
	fs.Int64Var(&opts.seed, "seed", 0, "random seed")
	bindParams(fs, &opts.params)
}

func bindParams(fs *pflag.FlagSet, p *policy.Params) {
	fs.IntVar(&p.Slots, "slots", p.Slots, "std: unchoke slots")
	fs.IntVar(&p.OptimisticRounds, "optimistic-rounds", p.OptimisticRounds, "std: rounds between optimistic unchoke changes")
	fs.Float64Var(&p.FracRandomBW, "frac-random-bw", p.FracRandomBW, "propshare, tourney: share reserved for exploration")
	fs.IntVar(&p.LenHistory, "len-history", p.LenHistory, "tourney: rounds of history considered")
	fs.Float64Var(&p.HistoryDiscount, "history-discount", p.HistoryDiscount, "tourney: weight decay per older round")
	fs.Float64Var(&p.RequestCountFactor, "request-count-factor", p.RequestCountFactor, "tourney: penalty for pieces already requested this round")
	fs.Float64Var(&p.Alpha, "alpha", p.Alpha, "tyrant: tau growth when a peer does not reciprocate")
	fs.Float64Var(&p.Gamma, "gamma", p.Gamma, "tyrant: tau decay for chronic unchokers")
	fs.IntVar(&p.R, "r", p.R, "tyrant: rounds a peer must unchoke us to be chronic")
	fs.Float64Var(&p.Cap, "cap", p.Cap, "tyrant: bandwidth cap, 0 for full capacity")
	fs.BoolVar(&p.SpareCapacity, "spare-capacity", p.SpareCapacity, "tyrant: spread unused capacity over unchoked peers")
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
