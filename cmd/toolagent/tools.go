package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/leofalp/toolagent/providers/ai"
	"github.com/leofalp/toolagent/providers/tool"
)

func newToolsCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the enabled tools and their definitions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			registry, err := enabledRegistry(root)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(registry.Definitions())
		},
	}
	cmd.AddCommand(newToolsRunCmd(root))
	return cmd
}

func newToolsRunCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "run <name> [arguments-json]",
		Short:   "Dispatch a single tool call locally, without the model",
		Example: `  toolagent tools run calculator '{"expression":"(15+25)*2"}'`,
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := enabledRegistry(root)
			if err != nil {
				return err
			}

			arguments := ""
			if len(args) == 2 {
				arguments = args[1]
			}
			result := registry.Dispatch(cmd.Context(), ai.ToolCall{
				ID:       "call_" + uuid.NewString(),
				Type:     "function",
				Function: ai.ToolCallFunction{Name: args[0], Arguments: arguments},
			})

			fmt.Fprintln(cmd.OutOrStdout(), result.Content())
			if !result.Success {
				return fmt.Errorf("%s: %s", result.Error, strings.TrimSpace(result.Message))
			}
			return nil
		},
	}
}

// enabledRegistry builds a registry from the profile's tool list. No API key
// is needed.
func enabledRegistry(root *rootOptions) (*tool.Registry, error) {
	cfg, err := loadConfig(root)
	if err != nil {
		return nil, err
	}
	tools, err := buildTools(cfg.Agent.Tools)
	if err != nil {
		return nil, err
	}
	return tool.NewRegistry(tools...)
}
