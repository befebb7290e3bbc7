package cmd

import (
	"log/slog"
	"net/http"

	"github.com/jsphweid/scoreline/constants"
	"github.com/jsphweid/scoreline/server"
	"github.com/spf13/cobra"
)

var (
	serveFlags scoreFlags
	serveAddr  string
)

func init() {
	addScoreFlags(serveCmd, &serveFlags)
	serveCmd.Flags().StringVar(&serveAddr, "addr", constants.GetAddr(), "listen address")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves decoded scores over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		srv := server.New(server.NewStore(), serveFlags.options())
		slog.Info("listening", "addr", serveAddr)
		return http.ListenAndServe(serveAddr, srv.Handler())
	},
}
