package validate

import "strings"

// NormalizeEmail canonicalizes an address so that aliases of the same
// mailbox compare equal: the address is lower-cased, gmail drops dots and
// "+tags" in the local part, and the big providers drop their sub-address.
func NormalizeEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))

	at := strings.LastIndex(email, "@")
	if at < 1 {
		return email
	}
	local, domain := email[:at], email[at+1:]

	switch domain {
	case "gmail.com", "googlemail.com":
		domain = "gmail.com"
		local = cutSuffix(local, "+")
		local = strings.ReplaceAll(local, ".", "")
	case "outlook.com", "hotmail.com", "live.com", "icloud.com", "me.com":
		local = cutSuffix(local, "+")
	case "yahoo.com", "ymail.com", "rocketmail.com":
		local = cutSuffix(local, "-")
	}

	if local == "" {
		return email
	}
	return local + "@" + domain
}

func cutSuffix(local, sep string) string {
	before, _, _ := strings.Cut(local, sep)
	return before
}
