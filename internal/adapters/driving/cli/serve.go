package cli

import (
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server, inbox and watcher",
	Long: `Runs fieldarchive as a long-lived service.

Serves the watcher and document endpoints over HTTP, ingests files dropped
into the inbox folder when one is configured, and starts the remote drive
watcher when watcher.autostart is set. Stops on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if serveFunc == nil {
			return notConfigured("server")
		}
		return serveFunc(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
