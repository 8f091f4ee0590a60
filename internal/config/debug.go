package config

import "os"

// IsDebug reads the SCOUT_DEBUG toggle; it ORs with the --debug flag.
func IsDebug() bool {
	return os.Getenv("SCOUT_DEBUG") == "1"
}
