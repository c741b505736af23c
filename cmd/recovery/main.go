// Command recovery signs messages, verifies signatures and recovers public
// keys with secp256k1 ECDSA.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/mahdiidarabi/secp256k1-recover/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
