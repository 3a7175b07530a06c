package cmd

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/rtzll/ytnotes/internal"
)

// cpCmd copies notes to the system clipboard instead of printing to stdout.
var cpCmd = &cobra.Command{
	Use:   "cp [URL]",
	Short: "Copy notes (or the transcript) for a YouTube video to the clipboard",
	Example: `  # Copy detailed notes
  ytnotes cp "https://www.youtube.com/watch?v=dQw4w9WgXcQ"

  # Copy bullet point notes made with Groq
  ytnotes cp dQw4w9WgXcQ --style "Bullet Points" --provider groq

  # Copy the raw transcript (no API key needed)
  ytnotes cp dQw4w9WgXcQ --transcript`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		if err := loadVideo(cmd, app, args[0]); err != nil {
			return err
		}

		what := "Transcript"
		text := app.Session().Transcript.Text
		if onlyTranscript, _ := cmd.Flags().GetBool("transcript"); !onlyTranscript {
			if _, err := app.GenerateNotes(cmd.Context(), ""); err != nil {
				return userError(err)
			}
			export, err := app.ExportNotes()
			if err != nil {
				return userError(err)
			}
			what = "Notes"
			text = string(export.Data)
		}

		if err := clipboard.WriteAll(text); err != nil {
			return fmt.Errorf("copying to clipboard: %w", err)
		}

		if !config.Quiet {
			fmt.Printf("%s copied to clipboard\n", what)
		}

		return nil
	},
}

func init() {
	internal.AddGenerationFlags(cpCmd)
	cpCmd.Flags().Bool("transcript", false, "Copy the transcript instead of notes")
	rootCmd.AddCommand(cpCmd)
}
