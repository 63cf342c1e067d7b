// Command interview-cli drives a running interview server from the terminal.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/eion/mock-interview/internal/client"
)

var version = "dev" // set via ldflags at build time

type options struct {
	server  string
	timeout time.Duration
}

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "interview-cli",
		Short: "Practice mock interviews against an interview server",
		Long: `interview-cli talks to the interview HTTP API. Use "practice" for an
interactive session, or the individual commands to script one.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	defaultServer := os.Getenv("INTERVIEW_SERVER_URL")
	if defaultServer == "" {
		defaultServer = "http://localhost:5000"
	}
	root.PersistentFlags().StringVar(&opts.server, "server", defaultServer, "Interview server base URL")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 2*time.Minute, "Per-request timeout")

	newClient := func() *client.Client {
		return client.New(opts.server, opts.timeout)
	}

	root.AddCommand(
		newStartCmd(newClient),
		newAnswerCmd(newClient),
		newSessionCmd(newClient),
		newReportCmd(newClient),
		newDeleteCmd(newClient),
		newListCmd(newClient),
		newPracticeCmd(newClient),
	)
	return root
}
