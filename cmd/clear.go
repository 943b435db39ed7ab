package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tapedeck-cli/tapedeck/auth"
	"github.com/tapedeck-cli/tapedeck/color"
	"github.com/tapedeck-cli/tapedeck/icon"
	"github.com/tapedeck-cli/tapedeck/key"
	"github.com/tapedeck-cli/tapedeck/style"
	"github.com/tapedeck-cli/tapedeck/util"
	"github.com/tapedeck-cli/tapedeck/where"
)

type clearTarget struct {
	name     string
	argLong  string
	argShort mo.Option[string]
	clear    func() error
}

var clearTargets = []clearTarget{
	{
		name:     "download ledger",
		argLong:  "ledger",
		argShort: mo.Some("l"),
		clear: func() error {
			return deleteIfExists(where.Ledger(where.Downloads(viper.GetString(key.DownloadsFolder))))
		},
	},
	{
		name:     "saved cookie",
		argLong:  "cookie",
		argShort: mo.Some("c"),
		clear:    auth.Clear,
	},
	{
		name:     "logs",
		argLong:  "logs",
		argShort: mo.None[string](),
		clear:    func() error { return deleteIfExists(where.Logs()) },
	},
}

func init() {
	rootCmd.AddCommand(clearCmd)

	for _, target := range clearTargets {
		help := fmt.Sprintf("clear %s", target.name)
		if short, ok := target.argShort.Get(); ok {
			clearCmd.Flags().BoolP(target.argLong, short, false, help)
		} else {
			clearCmd.Flags().Bool(target.argLong, false, help)
		}
	}
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the download ledger, the saved cookie or the logs",
	Long: `Clear the download ledger, the saved cookie or the logs.
Clearing the ledger makes the next run download every item again.`,
	Run: func(cmd *cobra.Command, args []string) {
		var anyCleared bool

		for _, target := range clearTargets {
			if !lo.Must(cmd.Flags().GetBool(target.argLong)) {
				continue
			}

			anyCleared = true
			erase := util.PrintErasable(fmt.Sprintf("%s Clearing %s...", icon.Get(icon.Progress), target.name))
			err := target.clear()
			erase()
			handleErr(err)

			fmt.Printf("%s %s cleared\n", style.Fg(color.Success)(icon.Get(icon.Success)), util.Capitalize(target.name))
		}

		if !anyCleared {
			handleErr(cmd.Help())
		}
	},
}

func deleteIfExists(path string) error {
	if err := util.Delete(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
