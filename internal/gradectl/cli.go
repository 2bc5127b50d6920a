package gradectl

import (
	"context"
	"fmt"
	"os"
)

// MainWithArgs runs the CLI with args and returns a process exit code.
func MainWithArgs(args []string) int {
	return run(context.Background(), DefaultConfig(), args)
}

func run(ctx context.Context, cfg *Config, args []string) int {
	root := buildRootCmdWith(cfg)
	if len(args) == 0 {
		_ = root.Help()
		return 2
	}
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}
	return 0
}

// Main returns an exit code (0 for success, non-zero on error) for use by cmd/gradectl.
func Main() int { return MainWithArgs(os.Args[1:]) }
