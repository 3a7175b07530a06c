package cmd

import (
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rtzll/ytnotes/internal"
)

// sessionCmd runs the interactive notes session
var sessionCmd = &cobra.Command{
	Use:   "session [YouTube URL or ID]",
	Short: "Start an interactive notes and Q&A session",
	Example: `  # Start an empty session and paste a URL at the prompt
  ytnotes session

  # Start with a video already loaded, using Groq
  ytnotes session dQw4w9WgXcQ --provider groq`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input := ""
		if len(args) > 0 {
			input = args[0]
		}
		return runSession(cmd, input)
	},
}

// runSession drives a REPL on the terminal until the user quits
func runSession(cmd *cobra.Command, input string) error {
	app, err := newApp(cmd)
	if err != nil {
		return err
	}

	options := []internal.REPLOption{
		internal.WithRenderer(internal.DisplayMarkdown),
	}
	if !clipboard.Unsupported {
		options = append(options, internal.WithClipboard(clipboard.WriteAll))
	}
	stdin := int(os.Stdin.Fd())
	if term.IsTerminal(stdin) {
		options = append(options, internal.WithSecretReader(func() (string, error) {
			key, err := term.ReadPassword(stdin)
			fmt.Println()
			return string(key), err
		}))
	}

	repl := internal.NewREPL(app, os.Stdin, os.Stdout, options...)
	if input != "" {
		repl.Handle(cmd.Context(), input)
	}
	return repl.Run(cmd.Context())
}

func init() {
	internal.AddGenerationFlags(sessionCmd)
	rootCmd.AddCommand(sessionCmd)
}
