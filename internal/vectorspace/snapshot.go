package vectorspace

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/akash1629/cross-domain/internal/config"
	"github.com/viant/vec/search"
)

const (
	// SnapshotFileName is the name of the cached vector space file.
	SnapshotFileName = "space.gob"

	// CurrentSnapshotVersion is the format version for compatibility checking.
	// Increment this when making breaking changes to the snapshot format.
	CurrentSnapshotVersion = 1
)

// Snapshot is the serialisable form of a built Space.
type Snapshot struct {
	Version           int
	CreatedAt         time.Time
	CorpusHash        string
	MaxVocabularySize int
	Vocabulary        []string
	IDF               []float64
	IDs               []string
	Vectors           [][]float32
	Stats             BuildStats
}

// SnapshotPath returns the path to the vector space snapshot.
func SnapshotPath(repoRoot string) string {
	return filepath.Join(config.CachePath(repoRoot), SnapshotFileName)
}

// Snapshot captures the space for persistence. The returned value shares no memory with the space.
func (s *Space) Snapshot() (*Snapshot, error) {
	if s == nil {
		return nil, ErrNotBuilt
	}
	vectors := make([][]float32, len(s.vectors))
	for i, v := range s.vectors {
		vectors[i] = append([]float32(nil), v...)
	}
	return &Snapshot{
		Version:           CurrentSnapshotVersion,
		CreatedAt:         s.createdAt,
		CorpusHash:        s.corpusHash,
		MaxVocabularySize: s.maxVocabularySize,
		Vocabulary:        s.Vocabulary(),
		IDF:               append([]float64(nil), s.idf...),
		IDs:               s.IDs(),
		Vectors:           vectors,
		Stats:             s.stats,
	}, nil
}

// FromSnapshot restores a Space, checking that every vector matches the vocabulary.
func FromSnapshot(snap *Snapshot) (*Space, error) {
	if snap.Version != CurrentSnapshotVersion {
		return nil, fmt.Errorf("%w: got %d, want %d (rebuild with 'bridge rebuild')",
			ErrUnsupportedVersion, snap.Version, CurrentSnapshotVersion)
	}
	if len(snap.IDs) != len(snap.Vectors) {
		return nil, fmt.Errorf("snapshot has %d ids but %d vectors", len(snap.IDs), len(snap.Vectors))
	}
	if len(snap.IDF) != len(snap.Vocabulary) {
		return nil, fmt.Errorf("snapshot has %d idf weights for %d terms", len(snap.IDF), len(snap.Vocabulary))
	}

	terms := make(map[string]int, len(snap.Vocabulary))
	for i, t := range snap.Vocabulary {
		terms[t] = i
	}

	position := make(map[string]int, len(snap.IDs))
	norms := make([]float32, len(snap.IDs))
	for i, id := range snap.IDs {
		if id == "" {
			return nil, ErrEmptyID
		}
		if len(snap.Vectors[i]) != len(snap.Vocabulary) {
			return nil, fmt.Errorf("vector dimension mismatch for %q: got %d, want %d",
				id, len(snap.Vectors[i]), len(snap.Vocabulary))
		}
		position[id] = i
		norms[i] = search.Float32s(snap.Vectors[i]).Magnitude()
	}

	return &Space{
		vocabulary:        snap.Vocabulary,
		terms:             terms,
		idf:               snap.IDF,
		ids:               snap.IDs,
		position:          position,
		vectors:           snap.Vectors,
		norms:             norms,
		maxVocabularySize: snap.MaxVocabularySize,
		corpusHash:        snap.CorpusHash,
		createdAt:         snap.CreatedAt,
		stats:             snap.Stats,
	}, nil
}

// Save persists the space to the repository cache using GOB encoding.
func (s *Space) Save(repoRoot string) error {
	snap, err := s.Snapshot()
	if err != nil {
		return err
	}

	path := SnapshotPath(repoRoot)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	// Write to a temp file first, then rename for atomicity
	tempPath := path + ".tmp"
	f, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	if err := gob.NewEncoder(f).Encode(snap); err != nil {
		f.Close()
		os.Remove(tempPath)
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("closing file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	return nil
}

// Load reads the cached space from the repository.
// Returns ErrSnapshotNotFound if no snapshot has been saved.
func Load(repoRoot string) (*Space, error) {
	f, err := os.Open(SnapshotPath(repoRoot))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("opening snapshot file: %w", err)
	}
	defer f.Close()

	var snap Snapshot
	if err := gob.NewDecoder(f).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}

	return FromSnapshot(&snap)
}

// SnapshotSize returns the size of the snapshot file in bytes.
func SnapshotSize(repoRoot string) (int64, error) {
	info, err := os.Stat(SnapshotPath(repoRoot))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, ErrSnapshotNotFound
		}
		return 0, err
	}
	return info.Size(), nil
}
