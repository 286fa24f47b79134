package filestore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sync"
	"time"

	"imagetagger/internal/domain"
)

// CorruptSuffix is appended to a session file that could not be parsed.
const CorruptSuffix = ".corrupt"

// SessionStore keeps the single SessionState of a run in memory and
// checkpoints it to a JSON file.
//
// mu guards the state; saveMu serializes writers of the file. Save only holds
// mu long enough to copy the state, so mutations are never blocked on disk.
type SessionStore struct {
	path   string
	logger *slog.Logger
	now    func() time.Time

	mu         sync.Mutex
	state      domain.SessionState
	dirty      bool
	generation uint64

	saveMu sync.Mutex
}

var _ domain.SessionStore = (*SessionStore)(nil)

// NewSessionStore returns a store for path holding a fresh state sized for
// totalImages. Call Load to resume from disk.
func NewSessionStore(path string, totalImages int, logger *slog.Logger) *SessionStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionStore{
		path:   path,
		logger: logger,
		now:    time.Now,
		state:  domain.NewSessionState(totalImages),
	}
}

// Path returns the session file location.
func (s *SessionStore) Path() string { return s.path }

// Load replaces the in-memory state with the file contents and returns a
// copy. A missing file keeps the fresh state. A corrupt file is moved aside to
// path+CorruptSuffix and the fresh state is kept; other read failures are
// logged and likewise degrade to the fresh state. Load never fails.
func (s *SessionStore) Load() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	fresh := domain.NewSessionState(s.state.Stats.TotalImages)
	loaded, err := s.read()
	switch {
	case err == nil:
		s.state = loaded
		s.logger.Info("session loaded",
			"path", s.path,
			"processed_images", loaded.Stats.ProcessedImages,
			"total_images", loaded.Stats.TotalImages,
		)
	case errors.Is(err, fs.ErrNotExist):
		s.state = fresh
		s.logger.Info("no previous session, starting fresh", "path", s.path)
	case errors.Is(err, domain.ErrCorruptState):
		s.state = fresh
		s.quarantine(err)
	default:
		s.state = fresh
		s.logger.Error("failed to read session, starting fresh", "path", s.path, "err", err)
	}
	s.dirty = false
	return s.state.Clone()
}

func (s *SessionStore) read() (domain.SessionState, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return domain.SessionState{}, err
	}
	state, err := decodeSession(data)
	if err != nil {
		return domain.SessionState{}, err
	}
	switch state.Version {
	case domain.SessionSchemaVersion:
	case "":
		s.logger.Warn("session file has no version, loading as legacy", "path", s.path)
	default:
		s.logger.Warn("session file has unknown version, loading best-effort",
			"path", s.path, "version", state.Version)
	}
	state.Version = domain.SessionSchemaVersion
	return state, nil
}

// decodeSession parses and repairs a session document. It returns an error
// wrapping domain.ErrCorruptState for anything it cannot repair.
func decodeSession(data []byte) (domain.SessionState, error) {
	var state domain.SessionState
	if err := json.Unmarshal(data, &state); err != nil {
		return domain.SessionState{}, fmt.Errorf("%w: %v", domain.ErrCorruptState, err)
	}
	if state.Stats.TotalImages < 0 || state.Stats.ProcessedImages < 0 {
		return domain.SessionState{}, fmt.Errorf("%w: negative stats", domain.ErrCorruptState)
	}
	assigned := make(map[string]string, len(state.ProcessedImages))
	for original, name := range state.ProcessedImages {
		if name == "" {
			return domain.SessionState{}, fmt.Errorf("%w: empty assigned name for %q", domain.ErrCorruptState, original)
		}
		if other, dup := assigned[name]; dup {
			return domain.SessionState{}, fmt.Errorf("%w: %q assigned to both %q and %q",
				domain.ErrCorruptState, name, other, original)
		}
		assigned[name] = original
	}
	state.Normalize()
	return state, nil
}

func (s *SessionStore) quarantine(cause error) {
	dst := s.path + CorruptSuffix
	if err := os.Rename(s.path, dst); err != nil {
		s.logger.Error("session file is corrupt and could not be moved aside",
			"path", s.path, "cause", cause, "err", err)
		return
	}
	s.logger.Warn("session file is corrupt, moved aside and starting fresh",
		"path", s.path, "moved_to", dst, "cause", cause)
}

// Snapshot returns a deep copy of the current state.
func (s *SessionStore) Snapshot() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Mutate applies fn to a copy of the state. If fn succeeds the copy becomes
// the state and the store is marked dirty; otherwise nothing changes.
func (s *SessionStore) Mutate(fn func(*domain.SessionState) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.state.Clone()
	if err := fn(&next); err != nil {
		return err
	}
	next.Normalize()
	s.state = next
	s.dirty = true
	s.generation++
	return nil
}

// Dirty reports whether there are mutations not yet saved.
func (s *SessionStore) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Save writes the state to disk when it is dirty or force is set. On failure
// the store stays dirty and a *domain.StorageError is returned.
func (s *SessionStore) Save(force bool) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	if !s.dirty && !force {
		s.mu.Unlock()
		return nil
	}
	snap := s.state.Clone()
	gen := s.generation
	s.mu.Unlock()

	snap.Normalize()
	snap.Version = domain.SessionSchemaVersion
	snap.LastUpdated = domain.NewTimestamp(s.now())
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return &domain.StorageError{Op: "encode session", Path: s.path, Err: err}
	}
	if err := WriteFileAtomic(s.path, data, 0o644, true); err != nil {
		return &domain.StorageError{Op: "save session", Path: s.path, Err: err}
	}

	s.mu.Lock()
	s.state.LastUpdated = snap.LastUpdated
	s.state.Version = snap.Version
	if s.generation == gen {
		s.dirty = false
	}
	s.mu.Unlock()
	s.logger.Debug("session saved", "path", s.path, "processed_images", snap.Stats.ProcessedImages)
	return nil
}
