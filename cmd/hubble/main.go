// Command hubble drives the off-chain rollup core: BLS keys and
// signatures, the account registry, and transfer blobs.
//
// Usage:
//
//	hubble [--config file] [--log-level level] <command> [flags]
//
// Commands:
//
//	keygen       Generate a BLS key pair
//	sign         Sign a message
//	verify       Verify a signature
//	register     Register public keys in the local registry
//	root         Print the registry root
//	tx inspect   Decode a transfer blob
package main

import (
	"fmt"
	"io"
	"os"
)

// Build-time version info, overridable with ldflags:
//
//	go build -ldflags "-X main.version=v0.2.0 -X main.commit=abc1234"
var (
	version = "v0.1.0-dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run is the actual entry point, returning an exit code. It accepts CLI
// arguments without the program name so it can be tested in isolation.
func run(args []string) int {
	return execute(args, os.Stdout, os.Stderr)
}

func execute(args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout}
	root := a.rootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
