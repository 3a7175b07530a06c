package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rtzll/ytnotes/internal"
)

// stylesCmd lists the note styles
var stylesCmd = &cobra.Command{
	Use:   "styles",
	Short: "List note styles",
	Example: `  # Show built-in styles
  ytnotes styles

  # Include custom styles from a file
  ytnotes styles --styles-file ~/my-styles.yaml --describe`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := internal.NewApp(config)
		if err != nil {
			return err
		}

		stylesFile, _ := cmd.Flags().GetString("styles-file")
		if stylesFile != "" {
			if err := app.LoadStyles(stylesFile); err != nil {
				return err
			}
		}

		describe, _ := cmd.Flags().GetBool("describe")
		for _, style := range app.Session().Styles.Styles() {
			kind := "custom"
			if style.BuiltIn {
				kind = "built-in"
			}
			fmt.Printf("%s (%s)\n", style.Name, kind)
			if describe {
				fmt.Printf("  %s\n\n", style.Instruction)
			}
		}
		return nil
	},
}

func init() {
	stylesCmd.Flags().String("styles-file", "", "YAML file with custom note styles")
	stylesCmd.Flags().Bool("describe", false, "Show each style's instruction")
	rootCmd.AddCommand(stylesCmd)
}
