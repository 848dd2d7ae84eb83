package config

// LoggingConfig holds logging configuration. The MCP transport owns
// stdout, so logs default to stderr.
type LoggingConfig struct {
	// Log level: debug, info, warn, error
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`

	// Output destination: stderr, file
	Output string `mapstructure:"output" validate:"required,oneof=stderr file"`

	// File path (required if output is "file")
	FilePath string `mapstructure:"file_path"`
}
