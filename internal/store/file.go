package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lmt927/weather-notify/internal/weather"
)

var (
	// ErrCorruptData is returned when a persisted file exists but cannot be
	// parsed. Corrupt data is never silently discarded.
	ErrCorruptData = errors.New("store: corrupt data file")
)

// RunStatus is the outcome recorded for the last completed run.
type RunStatus string

const (
	RunSuccess RunStatus = "success"
	RunFailure RunStatus = "failure"
)

// RunRecord is the singleton last-execution marker, overwritten each run.
// It exists for human troubleshooting only and is never consulted for
// correctness.
type RunRecord struct {
	LastRunAt time.Time `json:"last_run_at"`
	Status    RunStatus `json:"last_run_status"`
	LastError string    `json:"last_error,omitempty"`
}

// FileStore owns the history and run-record JSON files. No other component
// writes these files.
type FileStore struct {
	historyPath   string
	runRecordPath string
}

func NewFileStore(historyPath, runRecordPath string) *FileStore {
	return &FileStore{
		historyPath:   historyPath,
		runRecordPath: runRecordPath,
	}
}

// LoadHistory reads the persisted history. A missing file yields an empty
// history; an unparseable one yields ErrCorruptData.
func (s *FileStore) LoadHistory() (weather.History, error) {
	var h weather.History

	data, err := os.ReadFile(s.historyPath)
	if err != nil {
		if os.IsNotExist(err) {
			return h, nil
		}
		return h, fmt.Errorf("read %s: %w", s.historyPath, err)
	}

	if err := json.Unmarshal(data, &h); err != nil {
		return weather.History{}, fmt.Errorf("%w: %s: %v", ErrCorruptData, s.historyPath, err)
	}

	return h, nil
}

// SaveHistory atomically persists the full history. The write goes to a temp
// file in the same directory which is then renamed over the target, so a
// crash mid-save leaves the previous file intact.
func (s *FileStore) SaveHistory(h weather.History) error {
	return s.saveJSON(s.historyPath, h)
}

// LoadRunRecord reads the last-run marker. A missing file yields a zero
// record.
func (s *FileStore) LoadRunRecord() (RunRecord, error) {
	var r RunRecord

	data, err := os.ReadFile(s.runRecordPath)
	if err != nil {
		if os.IsNotExist(err) {
			return r, nil
		}
		return r, fmt.Errorf("read %s: %w", s.runRecordPath, err)
	}

	if err := json.Unmarshal(data, &r); err != nil {
		return RunRecord{}, fmt.Errorf("%w: %s: %v", ErrCorruptData, s.runRecordPath, err)
	}

	return r, nil
}

// RecordRun overwrites the run record with the outcome of the current run.
func (s *FileStore) RecordRun(status RunStatus, runErr error) error {
	rec := RunRecord{
		LastRunAt: time.Now().UTC(),
		Status:    status,
	}
	if runErr != nil {
		rec.LastError = runErr.Error()
	}
	return s.saveJSON(s.runRecordPath, rec)
}

func (s *FileStore) saveJSON(path string, v any) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", tmpName, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", path, err)
	}

	return nil
}
