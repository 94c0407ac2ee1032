package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/maitred/maitred"
	"github.com/maitred/maitred/tracing"
)

const version = "0.1.0"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "maitred: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: maitred <traceURL> <key> <errorLog>")
	}
	traceURL := args[0]
	// base 0 accepts decimal, hex (0x..) and octal keys
	key, err := strconv.ParseInt(args[1], 0, 64)
	if err != nil {
		return fmt.Errorf("invalid key %q: %w", args[1], err)
	}
	errorLog := args[2]

	spanOut := ""
	if errorLog != "" && errorLog != "-" {
		f, err := os.Create(errorLog)
		if err != nil {
			return fmt.Errorf("cannot open error log %s: %w", errorLog, err)
		}
		defer f.Close()
		log.SetOutput(f)
		spanOut = errorLog + ".spans.json"
	}
	if err := tracing.Init("maitred", version, spanOut); err != nil {
		return fmt.Errorf("failed to initialise tracing: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	config := maitred.DefaultConfig()
	if URL := os.Getenv("MAITRED_CONFIG"); URL != "" {
		if config, err = maitred.LoadConfig(ctx, URL); err != nil {
			return err
		}
	}
	config.Seed = key
	config.Trace.URL = traceURL

	service, err := maitred.New(maitred.WithConfig(config))
	if err != nil {
		return err
	}
	report, err := service.Run(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("served %d requests, cleaned %d tables, wrote %d snapshots in %s\n",
		report.Served, report.Cleaned, report.Snapshots, report.Elapsed)
	return nil
}
