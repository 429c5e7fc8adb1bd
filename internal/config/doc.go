// Package config loads riskwatch's typed configuration.
//
// Sources, in increasing precedence: built-in defaults, an optional YAML or
// JSON file, environment variables. Validation happens once at load time so
// every misconfiguration (missing credential, bad timezone, incomplete email
// recipient set) fails before the first network call.
package config
