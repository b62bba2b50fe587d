// Package loader watches the runtime overrides file (extra holidays, margin
// tier revisions) and pushes parsed updates to subscribers.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"simbroker/internal/logger"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// Overrides is the parsed content of the watched file.
type Overrides struct {
	// Holidays maps calendar name to extra holiday dates.
	Holidays map[string][]string `yaml:"holidays"`

	// MarginTiers maps instrument symbol to revised per-unit requirements.
	MarginTiers map[string]TierOverride `yaml:"margin_tiers"`
}

type TierOverride struct {
	InitialPerUnit     float64 `yaml:"initial_per_unit"`
	MaintenancePerUnit float64 `yaml:"maintenance_per_unit"`
}

type Subscriber func(Overrides)

// Watcher debounces filesystem events on one overrides file and re-parses it
// on change. Parse failures keep the previous state and are only logged.
type Watcher struct {
	path string

	mu          sync.Mutex
	current     Overrides
	subscribers []Subscriber

	watcher *fsnotify.Watcher
	done    chan struct{}
}

const debounceDelay = 200 * time.Millisecond

func NewWatcher(path string) (*Watcher, error) {
	w := &Watcher{path: path, done: make(chan struct{})}
	if current, err := parseOverrides(path); err == nil {
		w.current = current
	} else if !os.IsNotExist(err) {
		return nil, err
	}
	return w, nil
}

// Current returns the last successfully parsed overrides.
func (w *Watcher) Current() Overrides {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

// Subscribe registers fn and immediately delivers the current state.
func (w *Watcher) Subscribe(fn Subscriber) {
	w.mu.Lock()
	w.subscribers = append(w.subscribers, fn)
	current := w.current
	w.mu.Unlock()
	fn(current)
}

// Start begins watching the file's directory. It is a no-op when the path is
// empty.
func (w *Watcher) Start() error {
	if w.path == "" {
		return nil
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating fs watcher failed: %w", err)
	}
	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return fmt.Errorf("watching %s failed: %w", dir, err)
	}
	w.watcher = fw
	go w.loop()
	return nil
}

func (w *Watcher) Stop() {
	close(w.done)
	if w.watcher != nil {
		w.watcher.Close()
	}
}

func (w *Watcher) loop() {
	var timer *time.Timer
	target, _ := filepath.Abs(w.path)
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			abs, _ := filepath.Abs(event.Name)
			if abs != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounceDelay, w.reload)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warnf("overrides watcher error: %v", err)
		}
	}
}

func (w *Watcher) reload() {
	parsed, err := parseOverrides(w.path)
	if err != nil {
		logger.Warnf("reloading overrides failed, keeping previous: %v", err)
		return
	}
	w.mu.Lock()
	w.current = parsed
	subs := append([]Subscriber(nil), w.subscribers...)
	w.mu.Unlock()
	logger.Infof("overrides reloaded from %s", w.path)
	for _, fn := range subs {
		fn(parsed)
	}
}

func parseOverrides(path string) (Overrides, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Overrides{}, err
	}
	var out Overrides
	if err := yaml.Unmarshal(raw, &out); err != nil {
		return Overrides{}, fmt.Errorf("parsing overrides failed: %w", err)
	}
	return out, nil
}
