package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leofalp/toolagent/core/cost"
	"github.com/leofalp/toolagent/core/overview"
	"github.com/leofalp/toolagent/patterns/react"
	"github.com/leofalp/toolagent/providers/ai/deepseek"
)

type chatOptions struct {
	preamble      string
	noTools       bool
	maxIterations int
	showOverview  bool
	metricsAddr   string
}

func newChatCmd(root *rootOptions) *cobra.Command {
	opts := &chatOptions{}

	cmd := &cobra.Command{
		Use:   "chat [prompt]",
		Short: "Send a prompt to the agent, or chat interactively when no prompt is given",
		Example: `  toolagent chat "What is 123 + 456?"
  toolagent chat --no-tools "Introduce yourself"
  toolagent chat --overview "What's the weather in Beijing?"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := openSession(ctx, root)
			if err != nil {
				return err
			}
			defer s.close()

			agent, err := newAgent(s.provider, s.cfg, s.observer, agentOverrides{
				preamble:      opts.preamble,
				noTools:       opts.noTools,
				maxIterations: opts.maxIterations,
			})
			if err != nil {
				return err
			}

			if len(args) > 0 {
				return runPrompt(ctx, cmd.OutOrStdout(), agent, strings.Join(args, " "), opts.showOverview)
			}

			if opts.metricsAddr != "" {
				serveMetrics(ctx, opts.metricsAddr, s.observer)
			}
			return runInteractive(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), agent, opts.showOverview)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.preamble, "preamble", "", "system preamble, overrides the profile")
	flags.BoolVar(&opts.noTools, "no-tools", false, "do not offer any tools to the model")
	flags.IntVar(&opts.maxIterations, "max-iterations", 0, "maximum tool rounds per prompt, overrides the profile")
	flags.BoolVar(&opts.showOverview, "overview", false, "print the execution overview as JSON after each answer")
	flags.StringVar(&opts.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address during an interactive chat")
	return cmd
}

func runPrompt(ctx context.Context, out io.Writer, agent *react.Agent, prompt string, showOverview bool) error {
	ov, err := agent.Execute(ctx, prompt)
	if err != nil {
		return err
	}
	if ov.LastResponse != nil {
		fmt.Fprintln(out, ov.LastResponse.Content)
	}
	if showOverview {
		return printOverview(out, ov)
	}
	return nil
}

// runInteractive reads one prompt per line until EOF or "exit". Each line
// is an independent conversation. Failed prompts are reported and the loop
// continues.
func runInteractive(ctx context.Context, in io.Reader, out io.Writer, agent *react.Agent, showOverview bool) error {
	fmt.Fprintln(out, `Type a prompt and press enter. "exit" quits.`)
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		prompt := strings.TrimSpace(scanner.Text())
		switch prompt {
		case "":
			continue
		case "exit", "quit":
			return nil
		}

		if err := runPrompt(ctx, out, agent, prompt, showOverview); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fmt.Fprintf(out, "error: %v\n", err)
		}
	}
}

func printOverview(out io.Writer, ov *overview.Overview) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Usage         any            `json:"usage"`
		Requests      int            `json:"requests"`
		ToolCalls     map[string]int `json:"tool_calls,omitempty"`
		ToolFailures  map[string]int `json:"tool_failures,omitempty"`
		ExecutionTime string         `json:"execution_time"`
		Cost          *cost.Summary  `json:"estimated_cost,omitempty"`
	}{
		Usage:         ov.TotalUsage,
		Requests:      len(ov.Requests),
		ToolCalls:     ov.ToolCallStats,
		ToolFailures:  ov.ToolFailures,
		ExecutionTime: ov.ExecutionDuration().String(),
		Cost:          ov.CostSummary(),
	})
}

func newReasonCmd(root *rootOptions) *cobra.Command {
	var hideReasoning bool

	cmd := &cobra.Command{
		Use:   "reason <prompt>",
		Short: "Ask the reasoning model and print its reasoning before the answer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root.model = deepseek.ModelReasoner
			ctx := cmd.Context()
			s, err := openSession(ctx, root)
			if err != nil {
				return err
			}
			defer s.close()

			agent, err := newAgent(s.provider, s.cfg, s.observer, agentOverrides{noTools: true})
			if err != nil {
				return err
			}
			ov, err := agent.Execute(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if r := ov.LastResponse; r != nil {
				if r.Reasoning != "" && !hideReasoning {
					fmt.Fprintf(out, "Reasoning:\n%s\n\nAnswer:\n", r.Reasoning)
				}
				fmt.Fprintln(out, r.Content)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&hideReasoning, "hide-reasoning", false, "print only the final answer")
	return cmd
}
