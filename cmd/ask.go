package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rtzll/ytnotes/internal"
)

// askCmd answers one question about a video
var askCmd = &cobra.Command{
	Use:   "ask [YouTube URL or ID] [question]",
	Short: "Ask a question about a YouTube video",
	Example: `  # Ask about a video
  ytnotes ask dQw4w9WgXcQ "What is the main topic?"

  # Use Groq
  ytnotes ask "https://youtu.be/dQw4w9WgXcQ" "Summarize the ending" --provider groq`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		if err := loadVideo(cmd, app, args[0]); err != nil {
			return err
		}

		answer, err := app.Ask(cmd.Context(), strings.Join(args[1:], " "))
		if err != nil {
			return userError(err)
		}
		fmt.Println(internal.DisplayMarkdown(answer))
		return nil
	},
}

func init() {
	internal.AddGenerationFlags(askCmd)
	rootCmd.AddCommand(askCmd)
}
