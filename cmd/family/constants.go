package main

// Viper keys.
const (
	keyFamily  = "family"
	keyVerbose = "verbose"
)

// Default limits and sizes for CLI commands.
const (
	DefaultHistoryLimit = 20
	// DefaultCharsPerLine wraps node names when sizing tree nodes.
	DefaultCharsPerLine = 18
)
