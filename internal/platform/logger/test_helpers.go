package logger

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"sync"
)

// TestLogBuffer collects JSON log output from concurrent writers so tests
// can assert on individual records.
type TestLogBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *TestLogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *TestLogBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// GetLogEntries decodes one record per non-blank line.
func (b *TestLogBuffer) GetLogEntries() ([]map[string]any, error) {
	scanner := bufio.NewScanner(bytes.NewBufferString(b.String()))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var entries []map[string]any
	for n := 1; scanner.Scan(); n++ {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal(line, &entry); err != nil {
			return nil, fmt.Errorf("log line %d: %w", n, err)
		}
		entries = append(entries, entry)
	}
	return entries, scanner.Err()
}
