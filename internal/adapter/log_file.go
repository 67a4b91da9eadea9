// Package adapter contains filesystem and subprocess adapters for mutlab.
package adapter

import (
	"fmt"
	"os"
	"path/filepath"
)

// LogFile is the append-only text log for one scenario. Exactly one pipeline
// run writes to it: first the scenario header and diff, then interleaved
// phase markers and subprocess output.
type LogFile struct {
	path string
	file *os.File
}

// CreateLogFile opens (creating if absent) <dir>/<name>.log for appending.
func CreateLogFile(dir, name string) (*LogFile, error) {
	path := filepath.Join(dir, name+".log")

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create log file %s: %w", path, err)
	}

	return &LogFile{path: path, file: file}, nil
}

// Message writes a marker line, set off by a blank line, between blocks of
// subprocess output.
func (l *LogFile) Message(message string) {
	_, _ = fmt.Fprintf(l.file, "%s\n\n", message)
}

// Write streams subprocess output into the log.
func (l *LogFile) Write(p []byte) (int, error) {
	return l.file.Write(p)
}

// Path returns the log's location on disk.
func (l *LogFile) Path() string {
	return l.path
}

// Close releases the underlying file.
func (l *LogFile) Close() error {
	return l.file.Close()
}
