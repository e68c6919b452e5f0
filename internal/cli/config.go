package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/calgrid/pkg/buildinfo"
	"github.com/matzehuels/calgrid/pkg/config"
)

// configCommand groups the config file helpers.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the config file",
	}
	cmd.AddCommand(c.configPathCommand())
	cmd.AddCommand(c.configInitCommand())
	cmd.AddCommand(c.configShowCommand())
	return cmd
}

func (c *CLI) configFile() (string, error) {
	if c.ConfigPath != "" {
		return c.ConfigPath, nil
	}
	return config.Path()
}

func (c *CLI) configPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.configFile()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func (c *CLI) configInitCommand() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.configFile()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				printWarning("%s already exists (use --force to overwrite)", path)
				return nil
			}
			cfg := &config.Config{}
			cfg.Normalize()
			if err := cfg.Save(path); err != nil {
				return err
			}
			printSuccess("Wrote config")
			printFile(path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func (c *CLI) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			printKeyValue("Sources", fmt.Sprint(len(cfg.Sources)))
			for _, s := range cfg.Sources {
				printDetail("%s", s)
			}
			tz := cfg.Timezone
			if tz == "" {
				tz = "UTC"
			}
			printKeyValue("Timezone", tz)
			printKeyValue("View", cfg.View)
			printKeyValue("Hours", fmt.Sprintf("%02d:00-%02d:00", cfg.StartHour, cfg.EndHour))
			printKeyValue("Style", cfg.Style)
			printKeyValue("Calendars", fmt.Sprint(len(cfg.Calendars)))
			printKeyValue("Cache", cfg.Cache.Backend)
			printKeyValue("Server", cfg.Server.Addr)
			printKeyValue("Schedule", cfg.Watch.Schedule)
			return nil
		},
	}
}

// versionCommand prints build information.
func (c *CLI) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), buildinfo.String())
		},
	}
}
