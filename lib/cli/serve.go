package cli

import (
	"context"
	"net"
	"os"
	"os/signal"

	"example.com/swarmpolicy/lib/core/service/session"
	"example.com/swarmpolicy/lib/platform/gcache"
	"example.com/swarmpolicy/lib/platform/mathrand"
	"example.com/swarmpolicy/lib/platform/realclock"
	"example.com/swarmpolicy/lib/transport/echohttp"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	var addr string
	var sessions int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve policy decisions over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			h := &echohttp.HTTPServe{
				Sessions: session.NewStore(gcache.NewCache(sessions), realclock.RealClock{}, mathrand.New),
			}
			return h.Serve(ctx, ln)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().IntVar(&sessions, "sessions", 128, "sessions kept before the least recently used is dropped")
	return cmd
}
