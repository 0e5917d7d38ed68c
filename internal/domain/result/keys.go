package result

import (
	"regexp"
	"strings"
)

var keySeparatorRegex = regexp.MustCompile(`[\s\p{Z}_-]+`)

// noiseKeys are provider bookkeeping members that never describe a person or a leak.
var noiseKeys = keySet(
	"num of results", "num_of_results", "num-results", "numresults", "num results",
	"price",
	"search time", "search_time", "search-time",
)

// titleKeys are the members whose string value can name a record.
var titleKeys = keySet(
	"title", "name", "full name", "full_name", "email", "username", "user name",
	"domain", "ip", "ip address", "ip_address", "address", "id", "record id",
	"leak name", "breach", "source",
)

// NormalizeKey trims and lowercases a member key and collapses runs of
// whitespace, underscores and hyphens into one space.
func NormalizeKey(key string) string {
	k := strings.ToLower(strings.TrimSpace(key))
	return keySeparatorRegex.ReplaceAllString(k, " ")
}

// IsNoiseKey reports whether a member must be dropped from output.
// Keys that normalize to nothing are noise as well.
func IsNoiseKey(key string) bool {
	k := NormalizeKey(key)
	if k == "" {
		return true
	}
	_, ok := noiseKeys[k]
	return ok
}

func isTitleKey(key string) bool {
	_, ok := titleKeys[NormalizeKey(key)]
	return ok
}

func keySet(keys ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[NormalizeKey(k)] = struct{}{}
	}
	return set
}
