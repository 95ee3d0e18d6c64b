// Package cli implements the schedcheck command line.
package cli

import (
	"github.com/schedcheck/internal/logger"
	"github.com/schedcheck/internal/policy"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	version = "dev"
	commit  = "none"
)

type rootOptions struct {
	policyFile string
	verbose    bool
}

func (o *rootOptions) logger() *zap.Logger {
	l, err := logger.NewCLI(o.verbose)
	if err != nil {
		return zap.NewNop()
	}
	return l
}

func (o *rootOptions) policy() (*policy.Policy, error) {
	return policy.Load(o.policyFile)
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "schedcheck",
		Short:         "Validate academic schedule exports before import",
		Long:          "schedcheck checks schedule files (CSV, PDF, Excel, iCalendar, JSON, text) for structure, schedule content, source LMS and security risks.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.policyFile, "policy", "", "YAML policy file overlaying the built-in tables")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log pipeline details to stderr")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newValidateCmd(opts))
	cmd.AddCommand(newPolicyCmd(opts))
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}
