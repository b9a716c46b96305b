package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/piwi3910/tessera/internal/model"
	"github.com/piwi3910/tessera/internal/project"
)

// profilesCommand lists built-in and custom settings profiles.
func (c *CLI) profilesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List the available settings profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			custom, err := project.LoadCustomProfiles(c.profilesPath())
			if err != nil {
				return fmt.Errorf("load profiles: %w", err)
			}

			t := newTable("Name", "Source", "Lattice", "Grid", "Strategy", "Description")
			for _, p := range append(model.BuiltInProfiles(), custom...) {
				source := "custom"
				if p.IsBuiltIn {
					source = "built-in"
				}
				s := p.Settings
				t.Row(p.Name, source,
					fmt.Sprintf("%dx%d", s.LatticeStep, s.LatticeSteps),
					fmt.Sprintf("%dx%d", s.GridSize.X, s.GridSize.Y),
					string(s.Strategy), p.Description)
			}
			printTable(cmd.OutOrStdout(), t)
			return nil
		},
	}
}

// configCommand groups config file maintenance.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(c.configPath); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", c.configPath)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
			if err := project.SaveAppConfig(c.configPath, model.DefaultAppConfig()); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Wrote default config")
			printFile(cmd.OutOrStdout(), c.configPath)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	cmd.AddCommand(initCmd)
	return cmd
}
