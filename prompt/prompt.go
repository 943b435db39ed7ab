// Package prompt asks the operator for the run settings when no URL is given.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/tapedeck-cli/tapedeck/auth"
	"github.com/tapedeck-cli/tapedeck/color"
	"github.com/tapedeck-cli/tapedeck/icon"
	"github.com/tapedeck-cli/tapedeck/log"
	"github.com/tapedeck-cli/tapedeck/style"
)

// Answers are the settings collected by the menu.
type Answers struct {
	URL        string
	Folder     string
	Auth       bool
	Artwork    bool
	MinBitrate int
	Workers    int
}

// Ask walks through the menu, starting from defaults.
func Ask(defaults Answers) (*Answers, error) {
	answers := defaults

	if err := survey.AskOne(&survey.Input{
		Message: "SoundCloud URL (track or playlist):",
	}, &answers.URL, survey.WithValidator(survey.Required), survey.WithValidator(notBlank)); err != nil {
		return nil, err
	}
	answers.URL = strings.TrimSpace(answers.URL)

	if err := survey.AskOne(&survey.Input{
		Message: "Download folder:",
		Default: defaults.Folder,
	}, &answers.Folder); err != nil {
		return nil, err
	}

	if err := survey.AskOne(&survey.Confirm{
		Message: "Authenticate with saved cookies?",
		Default: defaults.Auth || auth.HasCookie(),
	}, &answers.Auth); err != nil {
		return nil, err
	}

	if answers.Auth && !auth.Restore() {
		saved, err := offerCookie()
		if err != nil {
			return nil, err
		}
		answers.Auth = saved
	}

	if err := survey.AskOne(&survey.Confirm{
		Message: "Embed artwork?",
		Default: defaults.Artwork,
	}, &answers.Artwork); err != nil {
		return nil, err
	}

	var err error
	if answers.MinBitrate, err = askInt("Minimum bitrate (kbps):", defaults.MinBitrate); err != nil {
		return nil, err
	}

	if answers.Workers, err = askInt("Parallel workers:", defaults.Workers); err != nil {
		return nil, err
	}
	answers.Workers = max(1, answers.Workers)

	return &answers, nil
}

// AskCookie reads a pasted cookie file from r and saves it.
func AskCookie(r io.Reader) error {
	fmt.Println(style.Faint("Paste the contents of your Netscape cookie file, then type END on its own line."))

	text := ReadCookie(r)
	if err := auth.Save(text); err != nil {
		return err
	}

	fmt.Printf("%s Cookie saved to %s\n", style.Fg(color.Success)(icon.Get(icon.Key)), auth.CookiePath())
	return nil
}

// ReadCookie collects pasted lines until EOF or a line reading EOF, END or DONE.
// Bracketed paste markers added by terminals are removed.
func ReadCookie(r io.Reader) string {
	var lines []string

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.NewReplacer("\x1b[200~", "", "\x1b[201~", "").Replace(scanner.Text())
		if isTerminator(line) {
			break
		}
		lines = append(lines, strings.TrimRight(line, "\r"))
	}

	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func isTerminator(line string) bool {
	switch strings.ToUpper(strings.TrimSpace(line)) {
	case "EOF", "END", "DONE":
		return true
	default:
		return false
	}
}

func offerCookie() (bool, error) {
	var paste bool
	if err := survey.AskOne(&survey.Confirm{
		Message: "No cookie file saved. Paste one now?",
		Default: true,
	}, &paste); err != nil {
		return false, err
	}

	if !paste {
		return false, nil
	}

	if err := AskCookie(os.Stdin); err != nil {
		if errors.Is(err, auth.ErrEmptyCookie) {
			fmt.Println(style.Fg(color.Skipped)("Nothing pasted, continuing without authentication"))
			return false, nil
		}
		return false, err
	}

	return true, nil
}

func askInt(message string, def int) (int, error) {
	var answer string
	if err := survey.AskOne(&survey.Input{
		Message: message,
		Default: strconv.Itoa(def),
	}, &answer, survey.WithValidator(integer)); err != nil {
		return 0, err
	}

	n, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil {
		log.Warnf("invalid number %q, using %d", answer, def)
		return def, nil
	}
	return n, nil
}

func notBlank(ans interface{}) error {
	if s, ok := ans.(string); ok && strings.TrimSpace(s) == "" {
		return errors.New("URL cannot be empty")
	}
	return nil
}

func integer(ans interface{}) error {
	s, _ := ans.(string)
	if _, err := strconv.Atoi(strings.TrimSpace(s)); err != nil {
		return errors.New("please enter a whole number")
	}
	return nil
}
