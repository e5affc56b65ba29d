package main

import (
	"errors"
	"log"
	"os"

	"github.com/recera/skinview/cmd/skinview/internal/config"
	"github.com/recera/skinview/cmd/skinview/internal/ui"
	"github.com/recera/skinview/pkg/skinview"
	"github.com/spf13/cobra"
)

func newEditCommand() *cobra.Command {
	var cwd string

	cmd := &cobra.Command{
		Use:   "edit [props file]",
		Short: "Edit a props file interactively",
		Long: `Opens a terminal editor for a props file. Saving while skinview serve
is watching the file pushes the change to every connected viewer.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cwd)
			if err != nil {
				return err
			}
			path := config.Resolve(".", cfg.Props.Path)
			if len(args) == 1 {
				path = args[0]
			}

			p, err := skinview.LoadProps(path)
			if errors.Is(err, os.ErrNotExist) {
				log.Printf("📝 %s does not exist yet, starting from defaults\n", path)
				p = skinview.DefaultProps()
			} else if err != nil {
				return err
			}

			_, err = ui.Run(path, p)
			return err
		},
	}

	cmd.Flags().StringVar(&cwd, "cwd", "", "Project directory (defaults to current)")

	return cmd
}
