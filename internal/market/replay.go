package market

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// ReplayHandler receives each snapshot as it is published.
type ReplayHandler func(symbol string, snap *Snapshot)

// ReplaySource reads a JSON-lines bar file and publishes the bars into a
// Cache in file order. It stands in for the external data feed when the
// engine is driven offline.
type ReplaySource struct {
	path  string
	cache *Cache
}

func NewReplaySource(path string, cache *Cache) *ReplaySource {
	return &ReplaySource{path: path, cache: cache}
}

// Run streams the file to completion, invoking handler after each publish.
// Lines that are blank or not JSON objects are skipped.
func (r *ReplaySource) Run(ctx context.Context, handler ReplayHandler) error {
	f, err := os.Open(r.path)
	if err != nil {
		return fmt.Errorf("opening replay file failed: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || !gjson.Valid(text) {
			continue
		}
		symbol, bar, err := parseBarLine(text)
		if err != nil {
			return fmt.Errorf("replay line %d: %w", line, err)
		}
		snap := r.cache.PublishBar(symbol, bar)
		if handler != nil {
			handler(symbol, snap)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading replay file failed: %w", err)
	}
	return nil
}

func parseBarLine(text string) (string, Bar, error) {
	root := gjson.Parse(text)
	symbol := root.Get("symbol").String()
	if symbol == "" {
		return "", Bar{}, fmt.Errorf("missing symbol")
	}
	ts := root.Get("time")
	var at time.Time
	if ts.Type == gjson.String {
		parsed, err := time.Parse(time.RFC3339, ts.String())
		if err != nil {
			return "", Bar{}, fmt.Errorf("bad time %q: %w", ts.String(), err)
		}
		at = parsed
	} else {
		at = time.UnixMilli(ts.Int()).UTC()
	}
	bar := Bar{
		Open:   root.Get("open").Float(),
		High:   root.Get("high").Float(),
		Low:    root.Get("low").Float(),
		Close:  root.Get("close").Float(),
		Volume: root.Get("volume").Float(),
		Time:   at,
	}
	if !bar.Valid() {
		return "", Bar{}, fmt.Errorf("bar violates ohlc ordering: %+v", bar)
	}
	return symbol, bar, nil
}
