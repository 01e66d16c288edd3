package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leofalp/toolagent/providers/ai"
)

func newStreamCmd(root *rootOptions) *cobra.Command {
	var preamble string

	cmd := &cobra.Command{
		Use:     "stream <prompt>",
		Short:   "Stream the model's reply as it is generated",
		Example: `  toolagent stream "Write a short poem about artificial intelligence"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := openSession(ctx, root)
			if err != nil {
				return err
			}
			defer s.close()

			agent, err := newAgent(s.provider, s.cfg, s.observer, agentOverrides{preamble: preamble, noTools: true})
			if err != nil {
				return err
			}
			stream, err := agent.Stream(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}

			out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
			for event, err := range stream.Iter() {
				if err != nil {
					fmt.Fprintln(out)
					return fmt.Errorf("stream: %w", err)
				}
				switch event.Type {
				case ai.StreamEventReasoning:
					fmt.Fprint(errOut, event.Reasoning)
				case ai.StreamEventContent:
					fmt.Fprint(out, event.Content)
				}
			}
			fmt.Fprintln(out)
			return nil
		},
	}
	cmd.Flags().StringVar(&preamble, "preamble", "", "system preamble, overrides the profile")
	return cmd
}
