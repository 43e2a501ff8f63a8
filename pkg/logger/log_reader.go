package logger

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LogEntry is one line of a category log file
type LogEntry struct {
	Timestamp string                 `json:"ts"`
	Level     string                 `json:"level"`
	Message   string                 `json:"msg"`
	Category  string                 `json:"category"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// LogReader reads the files written by MultiLogger
type LogReader struct {
	logsDir string
}

// NewLogReader creates a new log reader
func NewLogReader(logsDir string) *LogReader {
	return &LogReader{
		logsDir: logsDir,
	}
}

// Categories lists the categories MultiLogger writes
func Categories() []LogCategory {
	return []LogCategory{CategoryBatch, CategoryError}
}

// ValidCategory checks if a category is written by MultiLogger
func ValidCategory(category LogCategory) bool {
	for _, c := range Categories() {
		if c == category {
			return true
		}
	}
	return false
}

// LogPath returns the path of a category log file for a specific day
func (lr *LogReader) LogPath(category LogCategory, date time.Time) string {
	return filepath.Join(lr.logsDir, categoryFileName(category, date))
}

// ReadLogs returns the last limit entries of a category log file.
// A missing file yields no entries. limit <= 0 returns everything.
func (lr *LogReader) ReadLogs(category LogCategory, date time.Time, limit int) ([]LogEntry, error) {
	return lr.readFiltered(category, date, limit, nil)
}

// SearchLogs returns the last limit entries whose message or fields
// contain query, case-insensitively
func (lr *LogReader) SearchLogs(category LogCategory, date time.Time, query string, limit int) ([]LogEntry, error) {
	query = strings.ToLower(query)
	return lr.readFiltered(category, date, limit, func(e LogEntry) bool {
		if strings.Contains(strings.ToLower(e.Message), query) {
			return true
		}
		for _, v := range e.Fields {
			if strings.Contains(strings.ToLower(fmt.Sprint(v)), query) {
				return true
			}
		}
		return false
	})
}

func (lr *LogReader) readFiltered(category LogCategory, date time.Time, limit int, keep func(LogEntry) bool) ([]LogEntry, error) {
	file, err := os.Open(lr.LogPath(category, date))
	if err != nil {
		if os.IsNotExist(err) {
			return []LogEntry{}, nil
		}
		return nil, err
	}
	defer file.Close()

	entries := []LogEntry{}
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		entry := parseEntry(category, line)
		if keep != nil && !keep(entry) {
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	return entries, nil
}

// parseEntry splits a JSON log line into the well-known keys and the
// remaining structured fields. Lines that are not JSON are kept as messages.
func parseEntry(category LogCategory, line string) LogEntry {
	entry := LogEntry{Category: string(category)}

	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		entry.Level = "info"
		entry.Message = line
		return entry
	}

	entry.Timestamp, _ = raw["ts"].(string)
	entry.Level, _ = raw["level"].(string)
	entry.Message, _ = raw["msg"].(string)
	delete(raw, "ts")
	delete(raw, "level")
	delete(raw, "msg")

	if len(raw) > 0 {
		entry.Fields = raw
	}
	return entry
}

func categoryFileName(category LogCategory, date time.Time) string {
	return fmt.Sprintf("%s-%s.log", category, date.Format("20060102"))
}
