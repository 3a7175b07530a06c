package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rtzll/ytnotes/internal"
)

var (
	config *internal.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ytnotes [YouTube URL or ID]",
	Short: "Turn YouTube videos into study notes",
	Long: `ytnotes turns YouTube videos into AI-generated study notes.

It fetches the video's captions, sends the transcript to a hosted language
model (Google Gemini or Groq) and prints markdown notes in the selected style.

Run without arguments to start an interactive session where you can generate
notes in several styles and ask questions about the video.`,
	Example: `  # Generate detailed notes for a video
  ytnotes "https://www.youtube.com/watch?v=dQw4w9WgXcQ"
  ytnotes dQw4w9WgXcQ

  # Concise notes with Groq, saved as notes_dQw4w9WgXcQ.md
  ytnotes dQw4w9WgXcQ --provider groq --style Concise --save

  # Start an interactive session
  ytnotes`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return internal.HandleVerboseFlag(cmd, config)
	},
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return runSession(cmd, "")
		}

		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		if err := loadVideo(cmd, app, args[0]); err != nil {
			return err
		}

		notes, err := app.GenerateNotes(cmd.Context(), "")
		if err != nil {
			return userError(err)
		}
		fmt.Println(internal.DisplayMarkdown(notes.Content))

		save, _ := cmd.Flags().GetBool("save")
		outputDir, _ := cmd.Flags().GetString("output")
		interactive := isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
		if !save && outputDir == "" {
			if !interactive || !internal.AskUser(fmt.Sprintf("Save notes as %s?", internal.ExportFilename(notes.VideoID))) {
				return nil
			}
		}

		path, err := app.SaveNotes(outputDir)
		if err != nil {
			return err
		}
		if !config.Quiet {
			fmt.Fprintf(os.Stderr, "Notes saved to %s\n", path)
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	config = internal.InitConfig()

	if err := internal.EnsureDirs(config.ConfigDir, config.CacheDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating XDG directories: %v\n", err)
		os.Exit(1)
	}

	if err := internal.EnsureDefaultConfig(config.ConfigDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to ensure default config: %v\n", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nReceived interrupt signal. Cleaning up and shutting down...")

		cancel()

		cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cleanupCancel()

		cleanupDone := make(chan struct{})
		go func() {
			if err := internal.CleanupTempDir(config.TempDir); err != nil {
				fmt.Fprintf(os.Stderr, "Error cleaning up temporary files: %v\n", err)
			}
			close(cleanupDone)
		}()

		select {
		case <-cleanupDone:
		case <-cleanupCtx.Done():
			fmt.Fprintln(os.Stderr, "Warning: Cleanup timed out, forcing exit")
		}

		os.Exit(0)
	}()

	rootCmd.SetContext(ctx)

	return rootCmd.Execute()
}

func init() {
	internal.AddGenerationFlags(rootCmd)
	rootCmd.Flags().Bool("save", false, "Save the notes as notes_<id>.md without asking")
	rootCmd.Flags().StringP("output", "o", "", "Directory to save the notes in (implies --save)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for debugging")
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}
