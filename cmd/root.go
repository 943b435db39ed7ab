// Package cmd implements the command-line interface of tapedeck.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tapedeck-cli/tapedeck/artwork"
	"github.com/tapedeck-cli/tapedeck/auth"
	"github.com/tapedeck-cli/tapedeck/color"
	"github.com/tapedeck-cli/tapedeck/constant"
	"github.com/tapedeck-cli/tapedeck/downloader"
	"github.com/tapedeck-cli/tapedeck/icon"
	"github.com/tapedeck-cli/tapedeck/key"
	"github.com/tapedeck-cli/tapedeck/log"
	"github.com/tapedeck-cli/tapedeck/probe"
	"github.com/tapedeck-cli/tapedeck/prompt"
	"github.com/tapedeck-cli/tapedeck/provider"
	"github.com/tapedeck-cli/tapedeck/style"
	"github.com/tapedeck-cli/tapedeck/tagger"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Icons variant (emoji, nerd, plain, squares)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.Flags().StringP("output", "o", "", "Download folder, relative paths are resolved next to the executable")
	lo.Must0(viper.BindPFlag(key.DownloadsFolder, rootCmd.Flags().Lookup("output")))

	rootCmd.Flags().IntP("workers", "w", 0, "Number of items processed in parallel")
	lo.Must0(viper.BindPFlag(key.DownloadsWorkers, rootCmd.Flags().Lookup("workers")))

	rootCmd.Flags().IntP("min-bitrate", "b", 0, "Minimum bitrate in kbps, lower quality files are deleted")
	lo.Must0(viper.BindPFlag(key.DownloadsMinBitrate, rootCmd.Flags().Lookup("min-bitrate")))

	rootCmd.Flags().Bool("artwork", true, "Embed the thumbnail as cover art")
	lo.Must0(viper.BindPFlag(key.DownloadsArtwork, rootCmd.Flags().Lookup("artwork")))

	rootCmd.Flags().BoolP("auth", "A", false, "Retry with the saved cookie file on authentication errors")

	rootCmd.Flags().StringP("engine", "e", "", "Extraction engine")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("engine", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return provider.Names(), cobra.ShellCompDirectiveNoFileComp
	}))
	lo.Must0(viper.BindPFlag(key.EngineName, rootCmd.Flags().Lookup("engine")))

	rootCmd.Flags().BoolP("json", "j", false, "Print the run summary as JSON")
}

var rootCmd = &cobra.Command{
	Use:   constant.Tapedeck + " [url]",
	Short: "Download SoundCloud tracks and playlists as tagged MP3 files",
	Long: style.New().Bold(true).Foreground(color.Accent).Render(constant.Tapedeck) + "\n" +
		style.New().Italic(true).Render("    Download SoundCloud tracks and playlists as tagged MP3 files") + "\n\n" +
		"Run without a URL to be asked for the settings interactively.",
	Example: "  tapedeck https://soundcloud.com/user/sets/playlist -w 4 -o ~/Music",
	Args:    cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("version")) {
			versionCmd.Run(versionCmd, args)
			return
		}

		cfg := runConfig(cmd, args)
		if cfg.URL == "" {
			cfg = askConfig(cfg)
		}

		if cfg.Auth {
			if auth.Restore() {
				cfg.CookieFile = auth.CookiePath()
			} else {
				fmt.Fprintf(os.Stderr, "%s no cookie saved, continuing without authentication (see %s)\n",
					style.Fg(color.Skipped)(icon.Get(icon.Info)), style.Bold("tapedeck auth set"))
			}
		}

		CheckDependencies()

		deps, err := dependencies()
		handleErr(err)

		summary, err := downloader.Run(cmd.Context(), cfg, deps)
		handleErr(err)

		if lo.Must(cmd.Flags().GetBool("json")) {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(summary))
			return
		}

		printSummary(cmd.OutOrStdout(), summary)
	},
}

// runConfig reads the run settings from flags, environment and config file.
// Authentication follows --auth when given, otherwise it is on when enabled in
// the config or when a cookie file is saved.
func runConfig(cmd *cobra.Command, args []string) downloader.Config {
	cfg := downloader.Config{
		Folder:     viper.GetString(key.DownloadsFolder),
		Workers:    viper.GetInt(key.DownloadsWorkers),
		MinBitrate: viper.GetInt(key.DownloadsMinBitrate),
		Artwork:    viper.GetBool(key.DownloadsArtwork),
		Album:      viper.GetString(key.DownloadsAlbum),
		Format:     viper.GetString(key.EngineFormat),
	}

	if len(args) == 1 {
		cfg.URL = strings.TrimSpace(args[0])
	}

	if cmd.Flags().Changed("auth") {
		cfg.Auth = lo.Must(cmd.Flags().GetBool("auth"))
	} else {
		cfg.Auth = viper.GetBool(key.AuthEnable) || auth.HasCookie()
	}

	return cfg
}

func askConfig(cfg downloader.Config) downloader.Config {
	answers, err := prompt.Ask(prompt.Answers{
		Folder:     cfg.Folder,
		Auth:       cfg.Auth,
		Artwork:    cfg.Artwork,
		MinBitrate: cfg.MinBitrate,
		Workers:    cfg.Workers,
	})
	handleErr(err)

	cfg.URL = answers.URL
	cfg.Folder = answers.Folder
	cfg.Auth = answers.Auth
	cfg.Artwork = answers.Artwork
	cfg.MinBitrate = answers.MinBitrate
	cfg.Workers = answers.Workers
	return cfg
}

func dependencies() (downloader.Dependencies, error) {
	name := viper.GetString(key.EngineName)
	p, ok := provider.Get(name)
	if !ok {
		return downloader.Dependencies{}, fmt.Errorf("unknown engine %q, available: %s", name, strings.Join(provider.Names(), ", "))
	}

	engine, err := p.CreateEngine()
	if err != nil {
		return downloader.Dependencies{}, err
	}

	return downloader.Dependencies{
		Engine:  engine,
		Prober:  probe.New(viper.GetString(key.ProbePath)),
		Tagger:  tagger.New(),
		Artwork: artwork.New(time.Duration(viper.GetInt(key.ArtworkTimeout)) * time.Second),
		Progress: func(total int) downloader.Progress {
			return downloader.NewProgress(os.Stderr, total)
		},
	}, nil
}

// Execute runs the command tree. An interrupt cancels the running engine processes.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", style.Fg(color.Failure)(icon.Get(icon.Fail)), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
