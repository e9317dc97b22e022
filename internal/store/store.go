// Package store persists experiment records as one JSON file per run under
// experiment_<id>.json, with dense zero-based identifiers.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"sync"

	"github.com/dungscout96/prompt-experiment/internal/logger"
	"github.com/dungscout96/prompt-experiment/internal/models"
)

// ErrNotFound is returned when a key does not resolve to a stored record.
// Callers can tell it apart from I/O errors with errors.Is.
var ErrNotFound = errors.New("experiment not found")

const (
	filePrefix = "experiment_"
	fileExt    = ".json"
)

// maxSummaryDescription is the description length kept in listing summaries.
const maxSummaryDescription = 100

var keyRe = regexp.MustCompile(`^experiment_(\d+)\.json$`)

// Store is a file-backed experiment store. Creation and rename serialize
// behind one mutex so the identifier gap scan never races a concurrent
// write within this process. Concurrent writers from other processes are
// not supported.
type Store struct {
	dir string
	mu  sync.Mutex
}

// New creates a store rooted at dir. The directory itself is created lazily
// on the first write.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Create assigns the smallest unused non-negative identifier, writes the
// full record under experiment_<id>.json and returns the storage key and
// the assigned identifier.
func (s *Store) Create(record *models.ExperimentRecord) (string, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", 0, fmt.Errorf("failed to create experiments directory: %w", err)
	}

	// Linear probe from 0 for the first gap. Fine at the record counts a
	// prompt-engineering workflow produces.
	id := 0
	for {
		if _, err := os.Stat(filepath.Join(s.dir, filename(id))); os.IsNotExist(err) {
			break
		}
		id++
	}

	record.ExperimentID = id

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return "", 0, fmt.Errorf("failed to marshal record: %w", err)
	}

	key := filename(id)
	if err := os.WriteFile(filepath.Join(s.dir, key), data, 0644); err != nil {
		return "", 0, fmt.Errorf("failed to write record: %w", err)
	}

	logger.Info("Saved experiment %d as %s", id, key)
	return key, id, nil
}

// Get loads a record by storage key or bare identifier ("experiment_3.json"
// and "3" resolve to the same record).
func (s *Store) Get(key string) (*models.ExperimentRecord, error) {
	resolved, err := s.resolveKey(key)
	if err != nil {
		return nil, err
	}
	return s.load(resolved)
}

// List derives one summary per stored record, sorted by identifier
// descending so the most recent experiment comes first. Descriptions longer
// than 100 characters are truncated with a trailing ellipsis. A missing
// directory yields an empty list.
func (s *Store) List() ([]models.ExperimentSummary, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.ExperimentSummary{}, nil
		}
		return nil, fmt.Errorf("failed to read experiments directory: %w", err)
	}

	summaries := make([]models.ExperimentSummary, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !keyRe.MatchString(entry.Name()) {
			continue
		}

		record, err := s.load(entry.Name())
		if err != nil {
			logger.Warning("Skipping unreadable experiment %s: %v", entry.Name(), err)
			continue
		}

		summary := models.ExperimentSummary{
			ExperimentID:     record.ExperimentID,
			Filename:         entry.Name(),
			ExperimentName:   record.ExperimentName,
			Model:            record.Model,
			Timestamp:        record.Timestamp,
			Description:      truncate(record.Description, maxSummaryDescription),
			ValidationIssues: record.ValidationIssues,
		}
		if record.QualityGrade != nil {
			summary.QualityScore = record.QualityGrade.Score
		}
		summaries = append(summaries, summary)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].ExperimentID > summaries[j].ExperimentID
	})

	return summaries, nil
}

// Records loads every stored record, unsorted. Unreadable files are
// skipped with a warning, as in List.
func (s *Store) Records() ([]*models.ExperimentRecord, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read experiments directory: %w", err)
	}

	var records []*models.ExperimentRecord
	for _, entry := range entries {
		if entry.IsDir() || !keyRe.MatchString(entry.Name()) {
			continue
		}
		record, err := s.load(entry.Name())
		if err != nil {
			logger.Warning("Skipping unreadable experiment %s: %v", entry.Name(), err)
			continue
		}
		records = append(records, record)
	}

	return records, nil
}

// Rename overwrites only the experiment's label and rewrites the record.
func (s *Store) Rename(key, newName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	resolved, err := s.resolveKey(key)
	if err != nil {
		return err
	}

	record, err := s.load(resolved)
	if err != nil {
		return err
	}

	record.ExperimentName = newName

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	if err := os.WriteFile(filepath.Join(s.dir, resolved), data, 0644); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}

	return nil
}

// Path resolves a key to the absolute file path of an existing record.
func (s *Store) Path(key string) (string, error) {
	resolved, err := s.resolveKey(key)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, resolved)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, key)
	} else if err != nil {
		return "", err
	}

	return path, nil
}

func (s *Store) load(key string) (*models.ExperimentRecord, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("failed to read record: %w", err)
	}

	var record models.ExperimentRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to parse record %s: %w", key, err)
	}

	// Records written before identifiers existed carry none; fall back to
	// the ordinal embedded in the filename, then to 0.
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err == nil {
		if _, ok := fields["experiment_id"]; !ok {
			record.ExperimentID = idFromKey(key)
		}
	}

	return &record, nil
}

// resolveKey accepts a full storage key or a bare numeric identifier.
func (s *Store) resolveKey(key string) (string, error) {
	if id, err := strconv.Atoi(key); err == nil && id >= 0 {
		return filename(id), nil
	}
	if keyRe.MatchString(key) {
		return key, nil
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, key)
}

func filename(id int) string {
	return fmt.Sprintf("%s%d%s", filePrefix, id, fileExt)
}

func idFromKey(key string) int {
	match := keyRe.FindStringSubmatch(key)
	if match == nil {
		return 0
	}
	id, err := strconv.Atoi(match[1])
	if err != nil {
		return 0
	}
	return id
}

func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}

// Dir returns the directory records live in.
func (s *Store) Dir() string {
	return s.dir
}
