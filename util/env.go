// Package util - environment helpers.
//
//revive:disable-next-line:var-naming
package util

import "os"

// GetEnvDefault returns the environment variable value or a default when the
// variable is unset or empty.
func GetEnvDefault(key, defVal string) string {
	val, ex := os.LookupEnv(key)
	if !ex || val == "" {
		return defVal
	}
	return val
}
