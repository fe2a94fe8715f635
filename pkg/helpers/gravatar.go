package helpers

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// GravatarURL returns the default avatar URL for an email address.
func GravatarURL(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return "https://www.gravatar.com/avatar/" + hex.EncodeToString(sum[:])
}
