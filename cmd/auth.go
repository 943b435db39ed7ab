package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tapedeck-cli/tapedeck/auth"
	"github.com/tapedeck-cli/tapedeck/color"
	"github.com/tapedeck-cli/tapedeck/icon"
	"github.com/tapedeck-cli/tapedeck/prompt"
	"github.com/tapedeck-cli/tapedeck/style"
)

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authSetCmd, authClearCmd, authStatusCmd)
	authStatusCmd.SetOut(os.Stdout)
}

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the SoundCloud cookie used for private and restricted items",
	Long: `Manage the SoundCloud cookie used for private and restricted items.
Export your soundcloud.com cookies in Netscape format with a browser extension,
then paste them with "tapedeck auth set". Failures that look authentication
related are retried once with the cookie.`,
}

var authSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Paste and save a Netscape cookie file",
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(prompt.AskCookie(os.Stdin))
	},
}

var authClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the saved cookie",
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(auth.Clear())
		fmt.Printf("%s cookie deleted\n", style.Fg(color.Success)(icon.Get(icon.Success)))
	},
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether a cookie is saved",
	Run: func(cmd *cobra.Command, args []string) {
		if auth.Restore() {
			cmd.Printf("%s cookie saved at %s\n", style.Fg(color.Success)(icon.Get(icon.Key)), auth.CookiePath())
			return
		}

		cmd.Printf("%s no cookie saved\n", style.Fg(color.Skipped)(icon.Get(icon.Info)))
	},
}
