// Package config reads process settings from the environment. It is shared by
// the GCP and AWS hosts.
package config

import "os"

// GetEnv returns the value of key, or fallback when key is unset.
// A variable set to the empty string is returned as "".
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
