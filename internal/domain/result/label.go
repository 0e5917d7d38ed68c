package result

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	labelSeparatorRegex = regexp.MustCompile(`[_-]+`)
	camelBoundaryRegex  = regexp.MustCompile(`([a-z0-9])([A-Z])`)
)

var acronyms = map[string]struct{}{
	"ip": {}, "url": {}, "id": {}, "ssid": {}, "ssidpassword": {}, "otp": {},
	"ssn": {}, "dob": {}, "uid": {}, "mac": {}, "imei": {}, "imsi": {},
	"md5": {}, "sha1": {}, "sha256": {},
}

// FormatLabel turns a raw member key into a display label:
// "full_name" -> "Full Name", "ipAddress" -> "IP Address", "md5" -> "MD5".
// It is not idempotent: formatting an already formatted label may change
// the casing of short words.
func FormatLabel(key string) string {
	s := labelSeparatorRegex.ReplaceAllString(key, " ")
	s = camelBoundaryRegex.ReplaceAllString(s, "$1 $2")
	words := strings.Fields(s)
	if len(words) == 0 {
		return "Value"
	}

	for i, w := range words {
		words[i] = formatWord(w)
	}
	return strings.Join(words, " ")
}

func formatWord(word string) string {
	lower := strings.ToLower(word)
	if _, ok := acronyms[lower]; ok {
		return strings.ToUpper(lower)
	}
	if utf8.RuneCountInString(lower) <= 2 && hasASCIILetter(lower) {
		return strings.ToUpper(lower)
	}
	r, size := utf8.DecodeRuneInString(lower)
	return string(unicode.ToUpper(r)) + lower[size:]
}

func hasASCIILetter(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 'a' && s[i] <= 'z' {
			return true
		}
	}
	return false
}
