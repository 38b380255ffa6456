// Command tjarchive browses the archive API from a terminal.
package main

import (
	"net/http"
	"os"
	"time"

	"tjarchive-backend/client"

	"github.com/spf13/cobra"
)

var (
	endpoint string
	timeout  time.Duration
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "tjarchive",
	Short:        "Browse transitional justice decisions and revocation announcements",
	SilenceUsage: true,
}

func init() {
	defaultEndpoint := os.Getenv("TJARCHIVE_ENDPOINT")
	if defaultEndpoint == "" {
		defaultEndpoint = "http://localhost:8080"
	}
	rootCmd.PersistentFlags().StringVar(&endpoint, "endpoint", defaultEndpoint, "archive API endpoint")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 15*time.Second, "request timeout")

	rootCmd.AddCommand(decisionsCmd)
	rootCmd.AddCommand(decisionCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(revocationsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(tagCmd)
}

func newClient() *client.Client {
	c := client.NewClient(endpoint)
	if timeout > 0 {
		c = c.WithHTTPClient(&http.Client{Timeout: timeout})
	}
	return c
}
