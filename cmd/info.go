package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rtzll/ytnotes/internal"
)

// infoCmd shows what ytnotes knows about a video
var infoCmd = &cobra.Command{
	Use:   "info [URL]",
	Short: "Show video ID, thumbnail and caption availability",
	Example: `  # Show video information
  ytnotes info "https://www.youtube.com/watch?v=dQw4w9WgXcQ"
  ytnotes info dQw4w9WgXcQ

  # Print yt-dlp metadata as pretty JSON
  ytnotes info dQw4w9WgXcQ --json --pretty`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		videoID, ok := internal.ResolveVideoID(args[0])
		if !ok {
			return userError(internal.ErrInputUnresolvable)
		}

		app, err := newApp(cmd)
		if err != nil {
			return err
		}

		metadata, err := app.YouTube().Metadata(cmd.Context(), videoID)
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			var jsonData []byte
			pretty, _ := cmd.Flags().GetBool("pretty")
			if pretty {
				jsonData, err = json.MarshalIndent(metadata, "", "  ")
			} else {
				jsonData, err = json.Marshal(metadata)
			}
			if err != nil {
				return fmt.Errorf("error converting metadata to JSON: %w", err)
			}

			outputFile, _ := cmd.Flags().GetString("output")
			if outputFile != "" {
				return os.WriteFile(outputFile, jsonData, 0644)
			}
			fmt.Println(string(jsonData))
			return nil
		}

		fmt.Printf("Video ID: %s\n", videoID)
		fmt.Printf("Title: %s\n", metadata.Title)
		fmt.Printf("Channel: %s\n", metadata.Channel)
		fmt.Printf("Duration: %s\n", time.Duration(metadata.Duration*float64(time.Second)).Round(time.Second))
		fmt.Printf("Thumbnail: %s\n", internal.ThumbnailURL(videoID))
		fmt.Printf("Open video on YouTube: %s\n", internal.WatchURL(videoID))
		if metadata.HasCaptions() {
			fmt.Printf("Captions: %s\n", strings.Join(metadata.CaptionLanguages(), ", "))
		} else {
			fmt.Println("Captions: none")
		}
		return nil
	},
}

func init() {
	infoCmd.Flags().Bool("json", false, "Print the yt-dlp metadata as JSON")
	infoCmd.Flags().Bool("pretty", false, "Format JSON output with indentation")
	infoCmd.Flags().StringP("output", "o", "", "Write JSON to a file (default: stdout)")
	rootCmd.AddCommand(infoCmd)
}
