package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/squillaiugis/todo-app/internal/config"
	"github.com/squillaiugis/todo-app/internal/ui"
	"github.com/squillaiugis/todo-app/types"
	yaml "gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or create the configuration file",
}

// configShowCmd shows current configuration
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigShow(cmd)
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the current settings",
	Long: `Write the effective configuration (defaults, environment and flags) to a
YAML file. The default location is $HOME/.todo.yaml.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigInit(cmd)
	},
}

var (
	configInitPath  string
	configInitForce bool
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)

	configInitCmd.Flags().StringVar(&configInitPath, "path", "", "Where to write the file (default $HOME/.todo.yaml)")
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "Overwrite an existing file")
}

func runConfigShow(cmd *cobra.Command) error {
	settings := config.ToMap(appConfig)
	source := viper.ConfigFileUsed()

	if isJSON() {
		return printJSON(cmd.OutOrStdout(), map[string]any{"file": source, "config": settings})
	}

	body, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if source == "" {
		source = "none (defaults and environment)"
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, ui.RenderInfoPanel("todo configuration", ui.StyleSubtle.Render("file: "+source)))
	fmt.Fprint(out, string(body))
	return nil
}

func runConfigInit(cmd *cobra.Command) error {
	path := configInitPath
	if path == "" {
		p, err := config.DefaultConfigPath()
		if err != nil {
			return fmt.Errorf("resolve home directory: %w", err)
		}
		path = p
	}

	if err := config.WriteFile(path, appConfig, configInitForce); err != nil {
		if errors.Is(err, config.ErrConfigExists) {
			return types.NewCLIError(types.CodeConfig, err.Error()+" (use --force to overwrite)", map[string]any{"path": path})
		}
		return err
	}

	if isJSON() {
		return printJSON(cmd.OutOrStdout(), map[string]string{"path": path})
	}
	info(cmd, "Wrote %s", path)
	return nil
}
