package main

import (
	"errors"

	"github.com/akash1629/cross-domain/internal/config"
	"github.com/akash1629/cross-domain/internal/discovery"
	"github.com/akash1629/cross-domain/internal/storage"
	"github.com/akash1629/cross-domain/internal/vectorspace"
)

// mustLoadEngine builds a discovery engine from the repository's JSONL files.
// The cached vector space snapshot is reused when it was built from the same corpus
// and vocabulary cap; otherwise the space is rebuilt in memory.
func mustLoadEngine(repoRoot string) *discovery.Engine {
	cfg := mustLoadConfig(repoRoot)

	corpus, err := storage.LoadCorpus(config.ConceptsPath(repoRoot))
	if err != nil {
		exitWithError(ExitDataError, "reading concepts: %v", err)
	}
	frequencies, err := storage.LoadFrequencies(config.CitationsPath(repoRoot))
	if err != nil {
		exitWithError(ExitDataError, "reading citations: %v", err)
	}

	engine, err := discovery.New(*cfg, appLog)
	exitOnError(err, "creating engine")

	if space := loadFreshSnapshot(repoRoot, corpus, cfg.MaxVocabularySize); space != nil {
		exitOnError(engine.UseSpace(space), "installing vector space")
	} else {
		exitOnError(engine.BuildVectorSpace(corpus, nil), "building vector space")
	}
	exitOnError(engine.AddCitationData(frequencies), "loading citations")

	return engine
}

// loadFreshSnapshot returns the cached space if it matches the corpus, else nil.
func loadFreshSnapshot(repoRoot string, corpus map[string]string, maxVocab int) *vectorspace.Space {
	space, err := vectorspace.Load(repoRoot)
	if err != nil {
		if !errors.Is(err, vectorspace.ErrSnapshotNotFound) {
			appLog.Warn("ignoring unreadable vector space snapshot", "error", err)
		}
		return nil
	}
	if space.CorpusHash() != vectorspace.CorpusHash(corpus, maxVocab) {
		appLog.Debug("vector space snapshot is stale, rebuilding in memory")
		return nil
	}
	appLog.Debug("using cached vector space", "concepts", space.Len(), "dimensions", space.Dimensions())
	return space
}
