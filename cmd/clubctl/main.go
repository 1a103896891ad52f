package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"clubes/internal/adapters/apiclient"
	"clubes/internal/adapters/sessionstore"
	"clubes/internal/application/frontend"
)

func main() {
	_ = godotenv.Load()

	store, err := sessionstore.Open(envOrDefault("CLUBES_SESSION_FILE", defaultSessionFile()))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer store.Close()

	cli := &commandLine{
		out:     os.Stdout,
		in:      os.Stdin,
		store:   store,
		baseURL: apiclient.BaseURLFromEnv(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = cli.run(ctx, os.Args)
	stop()
	switch {
	case err == nil:
	case errors.Is(err, errHelp):
		store.Close()
		os.Exit(2)
	case errors.Is(err, frontend.ErrNotAuthenticated):
		fmt.Fprintln(os.Stderr, err.Error()+" (clubctl login -user USUARIO)")
		store.Close()
		os.Exit(1)
	default:
		fmt.Fprintln(os.Stderr, err)
		store.Close()
		os.Exit(1)
	}
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".clubctl.db"
	}
	return filepath.Join(home, ".clubctl.db")
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
