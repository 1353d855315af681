package logutil

import "strings"

// MaskEmail keeps the first character of the local part and the domain:
// "olive@example.com" becomes "o***@example.com".
func MaskEmail(email string) string {
	local, domain, ok := strings.Cut(email, "@")
	if !ok {
		return "***"
	}
	if len(local) <= 1 {
		return local + "***@" + domain
	}
	return local[:1] + "***@" + domain
}
