// Command bcrypt generates and checks bcrypt password hashes.
//
// Usage:
//
//	bcrypt salt [--cost N] [--revision 2b|2y]
//	bcrypt hash [--salt SALT] <secret|->
//	bcrypt compare <secret|-> <hash>
//	bcrypt cost <hash>
//	bcrypt info <hash>
//	bcrypt calibrate [--target 250ms] [--max 16]
//
// Settings come from --config, BCRYPT_* environment variables and flags,
// in increasing order of precedence.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/hasbyte1/go-bcrypt/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
