package ttsctl

import (
	"fmt"
	"os"
)

// Config carries the persistent CLI settings every command receives.
type Config struct {
	Addr     string
	TimeoutS int
	LogLvl   string
}

func defaultConfig() *Config {
	return &Config{
		Addr:     envStr("TTSD_ADDR", "http://127.0.0.1:8080"),
		TimeoutS: envInt("TTSCTL_TIMEOUT_S", 120),
		LogLvl:   envStr("TTSCTL_LOG_LEVEL", "info"),
	}
}

// MainWithArgs is a testable variant of Main that accepts args explicitly.
// It returns an exit code (0 for success, non-zero on error).
func MainWithArgs(args []string) int {
	cfg := defaultConfig()
	root := buildRootCmdWith(cfg)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}
	return 0
}

// Main returns an exit code (0 for success, non-zero on error) for use by cmd/ttsctl.
func Main() int { return MainWithArgs(os.Args[1:]) }
