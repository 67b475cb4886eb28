package config

import _ "embed"

// DefaultConfigTemplate is an annotated starting point for a config file.
//
//go:embed config.example.json
var DefaultConfigTemplate string
