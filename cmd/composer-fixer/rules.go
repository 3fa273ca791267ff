package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRulesCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the rules in the order they run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(cmd, opts)
			if err != nil {
				return err
			}
			for i, rule := range s.pipeline.Rules() {
				line := fmt.Sprintf("%2d. %s", i+1, rule.ID())
				if described, ok := rule.(interface{ Description() string }); ok {
					line += " (" + described.Description() + ")"
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
}
