// Package auth decides when a credentialed retry is warranted and manages the
// cookie file that makes one possible.
package auth

import (
	"github.com/zalando/go-keyring"
)

const (
	service = "tapedeck"
	user    = "cookie-file"
)

// setBackup persists the cookie text to the system keyring.
func setBackup(text string) error {
	return keyring.Set(service, user, text)
}

// getBackup retrieves the cookie text from the system keyring.
func getBackup() (string, error) {
	return keyring.Get(service, user)
}

// deleteBackup removes the cookie text from the system keyring.
func deleteBackup() error {
	return keyring.Delete(service, user)
}
