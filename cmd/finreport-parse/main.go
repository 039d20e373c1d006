package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/yannesss/finreport/internal/config"
	"github.com/yannesss/finreport/internal/smart"
	"github.com/yannesss/finreport/internal/smart/gemini"
)

// One-shot smart-entry tool: parses free text into a transaction draft and
// prints it as JSON. Useful for trying rule changes without a running server.
func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)

	backendFlag := flag.String("parser", "", "parser backend: rules or gemini (default from PARSER_BACKEND)")
	timeoutFlag := flag.Duration("timeout", 30*time.Second, "overall parse timeout")
	flag.Parse()

	text := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if text == "" {
		fmt.Fprintln(os.Stderr, "usage: finreport-parse [-parser rules|gemini] <text>")
		os.Exit(2)
	}

	cfg := config.Load()
	if *backendFlag != "" {
		cfg.ParserBackend = *backendFlag
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeoutFlag)
	defer cancel()

	var (
		parser smart.Parser
		err    error
	)
	switch cfg.ParserBackend {
	case "gemini":
		parser, err = gemini.New(ctx, cfg.GeminiModel)
		if err != nil {
			fmt.Fprintf(os.Stderr, "gemini parser: %v\n", err)
			os.Exit(1)
		}
	default:
		// No artificial delay for the offline tool
		parser = smart.NewRuleParser(0)
	}

	draft, err := parser.Parse(ctx, text)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse: %v\n", err)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(draft, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "encode: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
