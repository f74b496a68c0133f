package stream

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"siliconpulse/internal/model"
)

// Log is the append-only newline-delimited JSON event store. The
// append pipeline is its only writer; readers tail it concurrently.
type Log struct {
	path string
	mu   sync.Mutex
}

func NewLog(path string) (*Log, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to ensure stream dir: %w", err)
		}
	}
	return &Log{path: path}, nil
}

func (l *Log) Path() string {
	return l.path
}

// Append writes a batch of events in input order as one sequential
// append-only write.
func (l *Log) Append(events []model.Event) error {
	if len(events) == 0 {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open append: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for _, ev := range events {
		if err := enc.Encode(ev); err != nil {
			return fmt.Errorf("encode append: %w", err)
		}
	}
	return nil
}

// Tail returns up to maxEvents of the newest records in log order
// (oldest first). A missing file or a read failure yields an empty
// result; blank and undecodable lines are skipped.
func (l *Log) Tail(maxEvents int) []model.Event {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Error("error opening stream log", "path", l.path, "error", err)
		}
		return nil
	}
	defer f.Close()

	s := bufio.NewScanner(f)
	buf := make([]byte, 0, 1024*1024)
	s.Buffer(buf, 10*1024*1024)

	// keep only the last maxEvents lines to cap scan memory
	var lines []string
	for s.Scan() {
		line := s.Text()
		if len(line) == 0 {
			continue
		}
		lines = append(lines, line)
		if maxEvents > 0 && len(lines) > maxEvents {
			lines = lines[1:]
		}
	}
	if err := s.Err(); err != nil {
		slog.Error("error scanning stream log", "path", l.path, "error", err)
		return nil
	}

	events := make([]model.Event, 0, len(lines))
	for _, line := range lines {
		var ev model.Event
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			continue
		}
		events = append(events, ev)
	}
	return events
}
