// Command stackdraw renders diagram documents and serves the rendering API.
package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/stackdraw/internal/cli"
	"github.com/matzehuels/stackdraw/pkg/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx)
	stop()
	os.Exit(code)
}

// run maps the outcome to an exit status: 130 when interrupted, 2 for a bad
// document or argument, 1 for anything else.
func run(ctx context.Context) int {
	err := cli.New(os.Stderr, cli.LogInfo).RootCommand().ExecuteContext(ctx)
	switch {
	case err == nil:
		return 0
	case stderrors.Is(err, context.Canceled):
		return 130
	}
	fmt.Fprintln(os.Stderr, "Error:", errors.UserMessage(err))
	if errors.IsArgument(err) {
		return 2
	}
	return 1
}
