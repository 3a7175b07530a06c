package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// transcriptCmd prints the caption transcript of a video
var transcriptCmd = &cobra.Command{
	Use:   "transcript [YouTube URL or ID]",
	Short: "Get the caption transcript of a YouTube video",
	Example: `  # Print the transcript
  ytnotes transcript "https://www.youtube.com/watch?v=dQw4w9WgXcQ"
  ytnotes transcript dQw4w9WgXcQ

  # Save transcript to file
  ytnotes transcript dQw4w9WgXcQ -o transcript.txt

  # One caption line per row with start times
  ytnotes transcript dQw4w9WgXcQ --timestamps`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		if err := loadVideo(cmd, app, args[0]); err != nil {
			return err
		}

		transcript := app.Session().Transcript
		text := transcript.Text
		if timestamps, _ := cmd.Flags().GetBool("timestamps"); timestamps {
			var buf strings.Builder
			for _, f := range transcript.Fragments {
				fmt.Fprintf(&buf, "[%s] %s\n", formatTimestamp(f.Start), f.Text)
			}
			text = buf.String()
		}

		outputFile, _ := cmd.Flags().GetString("output")
		if outputFile != "" {
			return os.WriteFile(outputFile, []byte(text), 0644)
		}

		fmt.Println(text)
		return nil
	},
}

// formatTimestamp renders seconds as m:ss or h:mm:ss
func formatTimestamp(seconds float64) string {
	total := int(seconds)
	h, m, s := total/3600, (total%3600)/60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

func init() {
	transcriptCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	transcriptCmd.Flags().Bool("timestamps", false, "Print each caption line with its start time")
	rootCmd.AddCommand(transcriptCmd)
}
