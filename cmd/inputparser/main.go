package main

import (
	"io"
	"os"

	"inputparser/internal/cli"
	"inputparser/internal/config"
)

func main() {
	config.LoadDotenv()
	exitCode := run(os.Args[1:], os.Environ(), os.Stdin, os.Stdout, os.Stderr)
	os.Exit(exitCode)
}

// run executes the command line and returns the process exit code.
// It is separated from main() to enable testing.
func run(args, environ []string, stdin io.Reader, stdout, stderr io.Writer) int {
	return cli.Execute(args, environ, stdin, stdout, stderr)
}
