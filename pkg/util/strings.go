package util

import "strconv"

// ParseBoolDefault parses "true/1/on"-style strings or returns default if empty/invalid.
func ParseBoolDefault(s string, def bool) bool {
	switch s {
	case "on", "yes":
		return true
	case "off", "no":
		return false
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return def
	}
	return v
}
