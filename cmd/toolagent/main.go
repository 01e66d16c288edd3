// Command toolagent drives a DeepSeek model through the tool-calling agent:
// single prompts, an interactive chat, streaming and the reasoning model.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	envFiles   []string
	model      string
	logLevel   string
	logFormat  string
	backend    string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "toolagent",
		Short:         "Chat with a DeepSeek model that can call local tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "agent profile (YAML)")
	flags.StringSliceVar(&opts.envFiles, "env-file", []string{".env"}, ".env files to load before reading the environment")
	flags.StringVar(&opts.model, "model", "", "model name, overrides the profile")
	flags.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error")
	flags.StringVar(&opts.logFormat, "log-format", "", "text or json")
	flags.StringVar(&opts.backend, "observability", "", "none, slog or otel")

	cmd.AddCommand(
		newChatCmd(opts),
		newReasonCmd(opts),
		newStreamCmd(opts),
		newToolsCmd(opts),
	)
	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
