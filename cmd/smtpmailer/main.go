package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	smtpmailercmd "github.com/telekom/smtpmailer/pkg/cli/cmd"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := smtpmailercmd.NewRootCommand(smtpmailercmd.DefaultConfig())
	root.SetArgs(args)
	return smtpmailercmd.Execute(ctx, root)
}
