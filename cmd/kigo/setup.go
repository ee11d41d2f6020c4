package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kigo-app/kigo/internal/config"
)

var setupFlags struct {
	project bool
	force   bool
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create kigo configuration file",
	Long: `Create a kigo configuration file with sensible defaults.

By default, creates a global config at ~/.config/kigo/kigo.yml.
Use --project to create a project-local config in the current directory.

Set your Groq API key afterwards, either in the file or via GROQ_API_KEY.`,
	RunE: runSetup,
}

func init() {
	setupCmd.Flags().BoolVarP(&setupFlags.project, "project", "p", false, "Create config in current directory instead of global location")
	setupCmd.Flags().BoolVarP(&setupFlags.force, "force", "f", false, "Overwrite existing config file")
}

func runSetup(cmd *cobra.Command, args []string) error {
	targetPath := config.GlobalPath()
	if setupFlags.project {
		targetPath = config.ProjectPath()
	}

	if !setupFlags.force && fileExists(targetPath) {
		return fmt.Errorf("config file already exists at %s\n\nUse --force to overwrite", targetPath)
	}

	cfg := config.Defaults()
	var err error
	if setupFlags.project {
		err = config.WriteProject(cfg)
	} else {
		err = config.WriteGlobal(cfg)
	}
	if err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Printf("Config written to: %s\n\n", targetPath)
	fmt.Println("Add your Groq API key (api_key in the file, or export GROQ_API_KEY),")
	fmt.Println("then run 'kigo' to get started.")

	return nil
}
