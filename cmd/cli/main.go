package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/yasha-ai/gemini-worker/cmd/cli/commands"
	"github.com/yasha-ai/gemini-worker/internal/logger"
)

func main() {
	// Load .env if present; environment variables take precedence.
	_ = godotenv.Load()
	logger.Initialize()

	if err := commands.RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(commands.ExitCode(err))
	}
}
