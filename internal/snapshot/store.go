// Package snapshot persists saved hands: the game state, its action history
// and any strategy advice gathered while it was played.
package snapshot

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"

	"github.com/lox/holdem-trainer/internal/actionlog"
	"github.com/lox/holdem-trainer/internal/advice"
	"github.com/lox/holdem-trainer/internal/fileutil"
	"github.com/lox/holdem-trainer/internal/game"
)

// ErrNotFound is returned for an unknown record ID
var ErrNotFound = errors.New("snapshot not found")

// DefaultPageSize is used when List is given a non-positive size
const DefaultPageSize = 5

// Record is a saved hand
type Record struct {
	ID          string              `json:"id"`
	HandID      string              `json:"handId,omitempty"`
	Name        string              `json:"name"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
	State       game.Snapshot       `json:"gameState"`
	History     []actionlog.Entry   `json:"history,omitempty"`
	Suggestions []advice.Suggestion `json:"suggestions,omitempty"`
	Remarks     map[string]string   `json:"remarks,omitempty"`
}

// Summary is the listing form of a record
type Summary struct {
	ID        string     `json:"id"`
	HandID    string     `json:"handId,omitempty"`
	Name      string     `json:"name"`
	CreatedAt time.Time  `json:"createdAt"`
	Round     game.Round `json:"round"`
}

func (r Record) Summary() Summary {
	return Summary{ID: r.ID, HandID: r.HandID, Name: r.Name, CreatedAt: r.CreatedAt, Round: r.State.CurrentRound}
}

// Page is one page of summaries, newest first. Number is zero-based.
type Page struct {
	Content       []Summary `json:"content"`
	TotalPages    int       `json:"totalPages"`
	TotalElements int       `json:"totalElements"`
	Number        int       `json:"number"`
	Size          int       `json:"size"`
}

// Update changes the editable parts of a record. A nil Name leaves the name
// alone; remarks are merged, and an empty remark removes the entry.
type Update struct {
	Name    *string
	Remarks map[string]string
}

// Store is the persistence boundary for saved hands
type Store interface {
	Create(rec Record) (Record, error)
	Get(id string) (Record, error)
	List(page, size int) (Page, error)
	Update(id string, upd Update) (Record, error)
	Delete(id string) error
}

// FileStore keeps one JSON file per record in a directory
type FileStore struct {
	dir    string
	clock  quartz.Clock
	logger *log.Logger
	mu     sync.Mutex
}

// Option configures a FileStore
type Option func(*FileStore)

// WithClock sets the clock used for timestamps
func WithClock(clock quartz.Clock) Option {
	return func(s *FileStore) { s.clock = clock }
}

// WithLogger sets the store logger
func WithLogger(logger *log.Logger) Option {
	return func(s *FileStore) { s.logger = logger }
}

// NewFileStore opens (creating if needed) a store rooted at dir
func NewFileStore(dir string, opts ...Option) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	s := &FileStore{dir: dir, clock: quartz.NewReal(), logger: log.Default()}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithPrefix("snapshot")
	return s, nil
}

// Create stores a new record, assigning its ID and timestamps
func (s *FileStore) Create(rec Record) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now().UTC()
	rec.ID = uuid.NewString()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	if rec.Name == "" {
		rec.Name = fmt.Sprintf("Hand %d", rec.State.HandCount)
	}
	if err := fileutil.WriteJSON(s.path(rec.ID), rec); err != nil {
		return Record{}, fmt.Errorf("failed to save snapshot: %w", err)
	}
	s.logger.Debug("Saved snapshot", "id", rec.ID, "name", rec.Name)
	return rec, nil
}

// Get loads a record by ID
func (s *FileStore) Get(id string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(id)
}

// List returns the requested page of summaries, newest first
func (s *FileStore) List(page, size int) (Page, error) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = DefaultPageSize
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	matches, err := filepath.Glob(filepath.Join(s.dir, "*.json"))
	if err != nil {
		return Page{}, fmt.Errorf("failed to list snapshots: %w", err)
	}

	summaries := make([]Summary, 0, len(matches))
	for _, path := range matches {
		id := strings.TrimSuffix(filepath.Base(path), ".json")
		if uuid.Validate(id) != nil {
			continue
		}
		rec, err := s.read(id)
		if err != nil {
			s.logger.Warn("Skipping unreadable snapshot", "id", id, "error", err)
			continue
		}
		summaries = append(summaries, rec.Summary())
	}
	slices.SortFunc(summaries, func(a, b Summary) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	start := min(page*size, len(summaries))
	end := min(start+size, len(summaries))
	return Page{
		Content:       summaries[start:end],
		TotalPages:    (len(summaries) + size - 1) / size,
		TotalElements: len(summaries),
		Number:        page,
		Size:          size,
	}, nil
}

// Update renames a record and merges remarks
func (s *FileStore) Update(id string, upd Update) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.read(id)
	if err != nil {
		return Record{}, err
	}
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return Record{}, fmt.Errorf("snapshot name cannot be empty")
		}
		rec.Name = name
	}
	for player, remark := range upd.Remarks {
		if remark == "" {
			delete(rec.Remarks, player)
			continue
		}
		if rec.Remarks == nil {
			rec.Remarks = map[string]string{}
		}
		rec.Remarks[player] = remark
	}
	rec.UpdatedAt = s.clock.Now().UTC()

	if err := fileutil.WriteJSON(s.path(id), rec); err != nil {
		return Record{}, fmt.Errorf("failed to update snapshot: %w", err)
	}
	return rec, nil
}

// Delete removes a record
func (s *FileStore) Delete(id string) error {
	if uuid.Validate(id) != nil {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(id)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	s.logger.Debug("Deleted snapshot", "id", id)
	return nil
}

func (s *FileStore) read(id string) (Record, error) {
	if uuid.Validate(id) != nil {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	var rec Record
	if err := fileutil.ReadJSON(s.path(id), &rec); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return Record{}, err
	}
	return rec, nil
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}
