package cli

import (
	"github.com/spf13/cobra"
)

func newPolicyCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "policy",
		Short: "Print the effective validation policy as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.policy()
			if err != nil {
				return err
			}
			data, err := p.YAML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
