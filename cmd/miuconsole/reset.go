package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/miuconsole/internal/cli"
)

func newResetAdminPasswordCommand(options *rootOptions) *cobra.Command {
	var prompt bool
	command := &cobra.Command{
		Use:   "reset-admin-password <email>",
		Short: "Reset an administrator password in the devapi database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := options.load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			return cli.RunResetAdminPasswordCommand(cli.ResetAdminPasswordOptions{
				DBPath: cfg.DevAPI.DBPath,
				Email:  args[0],
				Prompt: prompt,
				Stdin:  os.Stdin,
				Stdout: cmd.OutOrStdout(),
			})
		},
	}
	command.Flags().BoolVar(&prompt, "prompt", false, "type the new password instead of generating a temporary one")
	return command
}
