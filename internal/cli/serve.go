package cli

import (
	"log/slog"
	"net"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/mcoot/gomokuclient-go/internal/testserver"
)

func newServeCmd() *cobra.Command {
	var addr, tcpAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a local development server",
		Long: `serve runs the in-memory gomoku server used by the test suite,
exposing the websocket endpoint at /ws and optionally the binary TCP
framing. State is not persisted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}))

			srv := testserver.NewServer(logger)

			if tcpAddr != "" {
				l, err := net.Listen("tcp", tcpAddr)
				if err != nil {
					return err
				}
				logger.Info("tcp listener started", slog.String("addr", tcpAddr))
				go srv.ServeTCP(l)
			}

			logger.Info("server started", slog.String("addr", addr))
			return http.ListenAndServe(addr, srv.Router())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "HTTP listen address")
	cmd.Flags().StringVar(&tcpAddr, "tcp-addr", "", "Optional TCP listen address for the binary framing")

	return cmd
}
