// Package envutil reads optional environment overrides. Unset, blank and
// unparsable values all leave the caller's default in place.
package envutil

import (
	"os"
	"strconv"
	"strings"
)

func lookup(name string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(name))
	return v, v != ""
}

func String(name, def string) string {
	if v, ok := lookup(name); ok {
		return v
	}
	return def
}

func Int64(name string, def int64) int64 {
	v, ok := lookup(name)
	if !ok {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}

// Bool accepts 1/true/yes/on and 0/false/no/off.
func Bool(name string, def bool) bool {
	v, _ := lookup(name)
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return def
}
