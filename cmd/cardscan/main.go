package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"time"

	"github.com/joseph-ayodele/cardscan/internal/card"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if len(os.Args) < 2 {
		logger.Error("usage", "cmd", "cardscan <card.txt> [card.txt ...]")
		os.Exit(2)
	}

	parser := card.NewParser(logger)
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	ctx := context.Background()

	exit := 0
	for _, path := range os.Args[1:] {
		start := time.Now()
		c, err := parser.GetContactInfo(ctx, path)
		if err != nil {
			logger.Error("card parse failed", "path", path, "error", err)
			exit = 1
			continue
		}
		logger.Info("card parsed",
			"path", path,
			"confidence", c.Confidence,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		if err := enc.Encode(c); err != nil {
			logger.Error("encode contact", "path", path, "error", err)
			exit = 1
		}
	}
	os.Exit(exit)
}
