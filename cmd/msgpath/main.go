package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jacoelho/msgpath/internal/config"
	"github.com/jacoelho/msgpath/internal/run"
)

func main() {
	exitCode := mainRun()
	os.Exit(exitCode)
}

func mainRun() int {
	cfg, exitResult := config.Parse(os.Args)
	if exitResult != nil {
		exitResult.Print()
		return exitResult.ExitCode
	}

	r, exitResult := run.New(cfg)
	if exitResult != nil {
		exitResult.Print()
		return exitResult.ExitCode
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return r.Run(ctx)
}
