// Command oidc-client discovers OpenID Connect providers and registers
// clients with them.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
)

func main() {
	ctx, cancelOnSignal := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancelOnSignal()

	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	if err := rootCmd(logger, nil).ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
