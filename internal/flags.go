package internal

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// AddGenerationFlags adds flags related to note generation
func AddGenerationFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("provider", "P", "", "AI provider: gemini or groq")
	cmd.Flags().StringP("style", "s", "", "Note style (see 'ytnotes styles')")
	cmd.Flags().StringP("api-key", "k", "", "API key for the selected provider")
	cmd.Flags().StringP("prompt", "p", "", "Custom prompt template (string or file path)")
	cmd.Flags().String("styles-file", "", "YAML file with custom note styles")
}

// HandleGenerationFlags applies the generation flags to the app session
func HandleGenerationFlags(cmd *cobra.Command, app *App) error {
	if err := HandlePromptFlag(cmd, app); err != nil {
		return err
	}

	stylesFile, _ := cmd.Flags().GetString("styles-file")
	if stylesFile != "" {
		if err := app.LoadStyles(stylesFile); err != nil {
			return err
		}
		app.ui.Verbose("Loaded custom styles from %s\n", stylesFile)
	}

	providerFlag, _ := cmd.Flags().GetString("provider")
	if providerFlag != "" {
		p, err := ParseProvider(providerFlag)
		if err != nil {
			return err
		}
		app.SelectProvider(p)
	}

	styleFlag, _ := cmd.Flags().GetString("style")
	if styleFlag != "" {
		if err := app.SelectStyle(styleFlag); err != nil {
			return err
		}
	}

	apiKey, _ := cmd.Flags().GetString("api-key")
	if strings.TrimSpace(apiKey) != "" {
		app.SetCredential(apiKey)
	}

	return nil
}

// HandlePromptFlag processes the --prompt flag to set custom prompt
func HandlePromptFlag(cmd *cobra.Command, app *App) error {
	promptFlag := cmd.Flags().Lookup("prompt")
	if promptFlag == nil || !promptFlag.Changed {
		return nil
	}

	prompt, err := cmd.Flags().GetString("prompt")
	if err != nil {
		return fmt.Errorf("failed to get prompt flag: %w", err)
	}

	if prompt == "" {
		return nil
	}

	prompts, err := NewPromptManager(prompt)
	if err != nil {
		return err
	}
	app.SetPromptManager(prompts)

	if IsLikelyFilePath(prompt) && FileExists(prompt) {
		app.ui.Verbose("Using custom prompt file: %s\n", prompt)
	} else {
		app.ui.Verbose("Using custom prompt string\n")
	}

	return nil
}

// HandleVerboseFlag processes the --verbose flag to update config
func HandleVerboseFlag(cmd *cobra.Command, config *Config) error {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return fmt.Errorf("failed to get verbose flag: %w", err)
	}
	config.Verbose = verbose
	return nil
}
