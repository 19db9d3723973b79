// Package index loads persisted per-species indexes from disk and
// caches them for the life of the process.
//
// Layout under the index root:
//
//	<root>/<species>/vectors.bin   flat vector index
//	<root>/<species>/documents.db  ordered chunk list (SQLite)
//	<root>/<species>/meta.json     build provenance
//
// Rebuilds swap a species directory atomically; an optional fsnotify
// watcher invalidates the cache so a serving process picks up the new
// index without restart.
package index

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/avicola-labs/avisearch-cli/internal/adapters/driven/index/flat"
	"github.com/avicola-labs/avisearch-cli/internal/adapters/driven/storage/sqlite"
	"github.com/avicola-labs/avisearch-cli/internal/core/domain"
	"github.com/avicola-labs/avisearch-cli/internal/core/ports/driven"
	"github.com/avicola-labs/avisearch-cli/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.IndexStore = (*Store)(nil)

// Index file names inside a species directory.
const (
	VectorsFile   = "vectors.bin"
	DocumentsFile = "documents.db"
	MetaFile      = "meta.json"
)

// Store lazily loads and caches species indexes.
type Store struct {
	root    string
	watcher *fsnotify.Watcher

	mu     sync.Mutex
	loaded map[domain.Species]*driven.LoadedIndex

	done chan struct{}
}

// Option configures the store.
type Option func(*Store)

// NewStore creates a store over the given index root.
func NewStore(root string, opts ...Option) (*Store, error) {
	s := &Store{
		root:   root,
		loaded: make(map[domain.Species]*driven.LoadedIndex),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// WithWatcher starts an fsnotify watcher on the index root so a
// rebuild swapped in by another process invalidates the cache.
func WithWatcher() Option {
	return func(s *Store) {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			logger.Warn("Index watcher unavailable: %v", err)
			return
		}
		if err := watcher.Add(s.root); err != nil {
			logger.Warn("Cannot watch index root %s: %v", s.root, err)
			watcher.Close()
			return
		}
		s.watcher = watcher
		go s.watch()
	}
}

// Load returns the index for the species, loading it on first access.
func (s *Store) Load(_ context.Context, species domain.Species) (*driven.LoadedIndex, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx, ok := s.loaded[species]; ok {
		return idx, nil
	}

	idx, err := s.load(species)
	if err != nil {
		return nil, err
	}
	s.loaded[species] = idx
	return idx, nil
}

// Invalidate drops the cached index for the species.
func (s *Store) Invalidate(species domain.Species) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drop(species)
}

// Close releases cached indexes and the watcher.
func (s *Store) Close() error {
	close(s.done)
	if s.watcher != nil {
		s.watcher.Close()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for species := range s.loaded {
		s.drop(species)
	}
	return nil
}

// load reads one species directory. Caller holds the lock.
func (s *Store) load(species domain.Species) (*driven.LoadedIndex, error) {
	dir := filepath.Join(s.root, string(species))
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("%w: no index for %s at %s", domain.ErrIndexUnavailable, species, dir)
	}

	vectors, err := flat.Load(filepath.Join(dir, VectorsFile))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrIndexUnavailable, err)
	}

	documents, err := sqlite.NewStore(filepath.Join(dir, DocumentsFile))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrIndexUnavailable, err)
	}

	idx := &driven.LoadedIndex{
		Vectors:   vectors,
		Documents: documents,
	}

	// meta.json is provenance only; a missing one is tolerated.
	if data, err := os.ReadFile(filepath.Join(dir, MetaFile)); err == nil {
		if err := json.Unmarshal(data, &idx.Meta); err != nil {
			logger.Warn("Unreadable meta.json for %s: %v", species, err)
		}
	}

	count, err := documents.Count(context.Background())
	if err == nil && count != vectors.Len() {
		logger.Warn("Index %s: %d vectors but %d documents, search limited to the smaller",
			species, vectors.Len(), count)
	}

	logger.Debug("Loaded index %s: %d vectors, %d dims", species, vectors.Len(), vectors.Dimensions())
	return idx, nil
}

// drop closes and forgets one cached index. Caller holds the lock.
func (s *Store) drop(species domain.Species) {
	if idx, ok := s.loaded[species]; ok {
		if idx.Documents != nil {
			idx.Documents.Close()
		}
		delete(s.loaded, species)
	}
}

// watch invalidates species caches as their directories change.
func (s *Store) watch() {
	for {
		select {
		case <-s.done:
			return
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			species := domain.Species(filepath.Base(event.Name))
			s.mu.Lock()
			if _, cached := s.loaded[species]; cached {
				logger.Info("Index %s changed on disk, reloading on next access", species)
				s.drop(species)
			}
			s.mu.Unlock()
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("Index watcher error: %v", err)
		}
	}
}
