package env

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// lookup returns the parsed value of key, or def when the variable is unset
// or cannot be parsed.
func lookup[T any](key string, def T, parse func(string) (T, error)) T {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return def
	}

	val, err := parse(raw)
	if err != nil {
		return def
	}

	return val
}

func RequireString(key string) string {
	val, ok := os.LookupEnv(key)
	if !ok {
		panic(fmt.Sprintf("environment variable %q is required", key))
	}

	return val
}

func String(key, def string) string {
	return lookup(key, def, func(s string) (string, error) { return s, nil })
}

func Int(key string, def int) int {
	return lookup(key, def, strconv.Atoi)
}

func Int64(key string, def int64) int64 {
	return lookup(key, def, func(s string) (int64, error) {
		return strconv.ParseInt(s, 10, 64)
	})
}

func Bool(key string, def bool) bool {
	return lookup(key, def, func(s string) (bool, error) {
		switch strings.ToLower(s) {
		case "true", "1", "yes":
			return true, nil
		case "false", "0", "no":
			return false, nil
		}
		return false, fmt.Errorf("invalid bool %q", s)
	})
}

func Duration(key string, def time.Duration) time.Duration {
	return lookup(key, def, time.ParseDuration)
}

// StringList reads a comma separated list. Blank items are dropped.
func StringList(key string, def []string) []string {
	return lookup(key, def, func(s string) ([]string, error) {
		var items []string
		for _, item := range strings.Split(s, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		return items, nil
	})
}
