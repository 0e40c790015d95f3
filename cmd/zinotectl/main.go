// Command zinotectl is the operator CLI: schema migrations, file import and
// export, token issuing and terminal search against the configured store.
package main

import (
	"context"
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"
)

func main() {
	if err := newCommand(os.Stdin, os.Stdout).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "zinotectl:", err)
		os.Exit(1)
	}
}
