package gradectl

import (
	"io"
	"os"
	"time"
)

// Config holds the client settings shared by every command.
type Config struct {
	URL     string
	Timeout time.Duration
	LogLvl  string
	// Compact disables indented JSON output.
	Compact bool
	In      io.Reader
	Out     io.Writer
}

// DefaultConfig reads GRADECTL_URL, GRADECTL_TIMEOUT (seconds), GRADECTL_LOG_LEVEL
// and GRADECTL_COMPACT.
func DefaultConfig() *Config {
	return &Config{
		URL:     envStr("GRADECTL_URL", "http://localhost:5000"),
		Timeout: time.Duration(envInt("GRADECTL_TIMEOUT", 150)) * time.Second,
		LogLvl:  envStr("GRADECTL_LOG_LEVEL", "info"),
		Compact: envBool("GRADECTL_COMPACT", false),
		In:      os.Stdin,
		Out:     os.Stdout,
	}
}
