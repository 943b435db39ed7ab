package auth

import "strings"

// signals are lower-cased fragments of engine failures that a logged-in session may fix.
var signals = []string{
	"http error 401",
	"http error 403",
	"http error 429",
	"login required",
	"sign in",
	"authentication required",
	"private",
	"you must be signed in",
	"not available to you",
	"this resource requires authentication",
	"only available for registered users",
}

// ShouldRetry reports whether err looks authentication related, meaning a
// second attempt with the saved cookie file is worth making.
func ShouldRetry(err error) bool {
	if err == nil {
		return false
	}

	msg := strings.ToLower(err.Error())
	for _, s := range signals {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
