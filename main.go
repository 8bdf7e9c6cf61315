package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mobile-next/spectrogesture/cli"
	"github.com/mobile-next/spectrogesture/commands"
	"github.com/mobile-next/spectrogesture/session"
)

func main() {
	// sessions hold live long-press timers; close them on the way out
	registry, err := session.NewRegistry(session.DefaultCapacity, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	commands.SetRegistry(registry)

	// setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// run command in goroutine
	done := make(chan error, 1)
	go func() {
		done <- cli.Execute()
	}()

	// wait for command completion or signal
	select {
	case <-sigChan:
		registry.CleanupAll()
		os.Exit(0)
	case err := <-done:
		registry.CleanupAll()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}
