package main

import (
	"fmt"

	"github.com/recera/skinview/cmd/skinview/internal/config"
	"github.com/recera/skinview/cmd/skinview/internal/ui"
	"github.com/recera/skinview/pkg/skinview"
	"github.com/spf13/cobra"
)

func newCheckCommand() *cobra.Command {
	var cwd string

	cmd := &cobra.Command{
		Use:   "check [props files...]",
		Short: "Validate props files",
		Long:  `Parses and validates props files. Defaults to the props file named in skinview.yaml.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cwd)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				args = []string{config.Resolve(".", cfg.Props.Path)}
			}

			failed := 0
			for _, path := range args {
				p, err := skinview.LoadProps(path)
				if err != nil {
					failed++
				}
				fmt.Fprintln(cmd.OutOrStdout(), ui.RenderCheck(path, p, err))
			}
			if failed > 0 {
				cmd.SilenceUsage = true
				return fmt.Errorf("%d of %d props files are invalid", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&cwd, "cwd", "", "Project directory (defaults to current)")

	return cmd
}
