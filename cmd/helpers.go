package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rtzll/ytnotes/internal"
)

// newApp creates the app and applies the generation flags the command defines
func newApp(cmd *cobra.Command, options ...internal.AppOption) (*internal.App, error) {
	app, err := internal.NewApp(config, options...)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Lookup("provider") != nil {
		if err := internal.HandleGenerationFlags(cmd, app); err != nil {
			return nil, err
		}
	}
	return app, nil
}

// loadVideo resolves arg and fetches its transcript
func loadVideo(cmd *cobra.Command, app *internal.App, arg string) error {
	if internal.IsLikelyCommand(arg) {
		return unknownArgError(cmd.Root(), arg)
	}
	if _, err := app.SubmitURL(cmd.Context(), arg); err != nil {
		return userError(err)
	}
	return nil
}

// unknownArgError suggests commands for arguments that are not videos
func unknownArgError(root *cobra.Command, arg string) error {
	var suggestions []string
	for _, c := range root.Commands() {
		name := c.Name()
		if strings.Contains(name, arg) || (len(arg) <= len(name) && strings.HasPrefix(name, arg)) {
			suggestions = append(suggestions, name)
		}
	}

	if len(suggestions) > 0 {
		return fmt.Errorf("'%s' doesn't look like a YouTube URL or video ID. Did you mean: %s?", arg, strings.Join(suggestions, ", "))
	}
	return fmt.Errorf("'%s' doesn't look like a YouTube URL or video ID. Use --help to see available commands", arg)
}

// userError replaces err with its user-facing message
func userError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s", internal.UserMessage(err))
}
