package cmd

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tapedeck-cli/tapedeck/color"
	"github.com/tapedeck-cli/tapedeck/constant"
	"github.com/tapedeck-cli/tapedeck/engine/ytdlp"
	"github.com/tapedeck-cli/tapedeck/icon"
	"github.com/tapedeck-cli/tapedeck/key"
	"github.com/tapedeck-cli/tapedeck/style"
	"github.com/tapedeck-cli/tapedeck/version"
)

// dependency is an external program the pipeline runs.
type dependency struct {
	name    string
	binary  func() string
	install map[string]string
}

var requirements = []dependency{
	{
		name:   "yt-dlp",
		binary: func() string { return viper.GetString(key.EnginePath) },
		install: map[string]string{
			constant.Darwin:  "brew install yt-dlp",
			constant.Linux:   "python3 -m pip install -U yt-dlp",
			constant.Windows: "winget install yt-dlp",
		},
	},
	{
		// yt-dlp's mp3 postprocessor looks it up on PATH
		name:   "ffmpeg",
		binary: func() string { return constant.FFmpegBinary },
		install: map[string]string{
			constant.Darwin:  "brew install ffmpeg",
			constant.Linux:   "sudo apt install ffmpeg",
			constant.Windows: "winget install ffmpeg",
		},
	},
	{
		name:   "ffprobe",
		binary: func() string { return viper.GetString(key.ProbePath) },
		install: map[string]string{
			constant.Darwin:  "brew install ffmpeg",
			constant.Linux:   "sudo apt install ffmpeg",
			constant.Windows: "winget install ffmpeg",
		},
	},
}

// CheckDependencies exits when yt-dlp, ffmpeg or ffprobe cannot be found.
func CheckDependencies() {
	for _, dep := range requirements {
		if _, err := exec.LookPath(dep.binary()); err != nil {
			printMissingDependencyError(dep)
			os.Exit(1)
		}
	}
}

func printMissingDependencyError(dep dependency) {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color.Failure).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(color.Failure).Render(fmt.Sprintf("%s Missing dependency", icon.Get(icon.Fail)))
	body := fmt.Sprintf("%s was not found (looked for %q).", dep.name, dep.binary())

	suggestion := ""
	if install, ok := dep.install[runtime.GOOS]; ok {
		suggestion = fmt.Sprintf("\n\nTo install it, try running:\n  %s", style.New().Foreground(color.Accent).Bold(true).Render(install))
	}

	fmt.Println(box.Render(lipgloss.JoinVertical(lipgloss.Left, title, "", body, suggestion)))
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.SetOut(os.Stdout)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that yt-dlp, ffmpeg and ffprobe are installed",
	Run: func(cmd *cobra.Command, args []string) {
		ok := true

		for _, dep := range requirements {
			path, err := exec.LookPath(dep.binary())
			if err != nil {
				ok = false
				cmd.Printf("%s %s not found\n", style.Fg(color.Failure)(icon.Get(icon.Fail)), dep.name)
				if install, found := dep.install[runtime.GOOS]; found {
					cmd.Printf("  %s\n", style.Faint(install))
				}
				continue
			}

			cmd.Printf("%s %s %s\n", style.Fg(color.Success)(icon.Get(icon.Success)), dep.name, style.Faint(path))
		}

		if !ok {
			os.Exit(1)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
		defer cancel()

		v, err := ytdlp.New(viper.GetString(key.EnginePath)).Version(ctx)
		if err != nil {
			cmd.Printf("%s could not read the yt-dlp version: %v\n", style.Fg(color.Skipped)(icon.Get(icon.Info)), err)
			return
		}

		cmp, err := version.Compare(v, constant.MinEngineVersion)
		switch {
		case err != nil:
			cmd.Printf("%s unrecognized yt-dlp version %s\n", style.Fg(color.Skipped)(icon.Get(icon.Info)), v)
		case cmp < 0:
			cmd.Printf("%s yt-dlp %s is older than %s, SoundCloud extraction may fail. Update it with %s\n",
				style.Fg(color.Skipped)(icon.Get(icon.Info)), v, constant.MinEngineVersion, style.Bold("yt-dlp -U"))
		default:
			cmd.Printf("%s yt-dlp %s\n", style.Fg(color.Success)(icon.Get(icon.Success)), v)
		}
	},
}
