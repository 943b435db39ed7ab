package auth

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/tapedeck-cli/tapedeck/filesystem"
	"github.com/tapedeck-cli/tapedeck/log"
	"github.com/tapedeck-cli/tapedeck/where"
	"github.com/zalando/go-keyring"
)

// ErrEmptyCookie is returned when there is nothing to save.
var ErrEmptyCookie = errors.New("cookie text is empty")

// CookiePath returns the location of the Netscape-format cookie file.
func CookiePath() string {
	return where.Cookies()
}

// HasCookie reports whether a non-empty cookie file is saved.
func HasCookie() bool {
	info, err := filesystem.API().Stat(CookiePath())
	if err != nil {
		return false
	}
	return !info.IsDir() && info.Size() > 0
}

// Save writes the cookie text beside the program and keeps a keyring copy.
// The keyring copy is best effort; some platforms cap secret sizes.
func Save(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyCookie
	}

	path := CookiePath()
	if err := filesystem.API().MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return err
	}

	if err := filesystem.API().WriteFile(path, []byte(text+"\n"), 0o600); err != nil {
		return err
	}

	if err := setBackup(text); err != nil {
		log.Warnf("keyring copy of cookie not stored: %v", err)
	}

	return nil
}

// Restore rewrites a missing cookie file from the keyring copy.
// It reports whether a cookie file is available afterwards.
func Restore() bool {
	if HasCookie() {
		return true
	}

	text, err := getBackup()
	if err != nil {
		if !errors.Is(err, keyring.ErrNotFound) {
			log.Warnf("read keyring cookie: %v", err)
		}
		return false
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}

	if err := filesystem.API().WriteFile(CookiePath(), []byte(text+"\n"), 0o600); err != nil {
		log.Warnf("restore cookie file: %v", err)
		return false
	}

	log.Info("cookie file restored from keyring")
	return true
}

// Clear removes the cookie file and its keyring copy.
func Clear() error {
	var errs []error

	if err := filesystem.API().Remove(CookiePath()); err != nil && !errors.Is(err, os.ErrNotExist) {
		errs = append(errs, err)
	}

	if err := deleteBackup(); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
