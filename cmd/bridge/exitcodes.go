package main

import (
	"errors"

	"github.com/akash1629/cross-domain/internal/bridge"
	"github.com/akash1629/cross-domain/internal/concept"
	"github.com/akash1629/cross-domain/internal/config"
	"github.com/akash1629/cross-domain/internal/novelty"
	"github.com/akash1629/cross-domain/internal/pathfind"
	"github.com/akash1629/cross-domain/internal/vectorspace"
)

const (
	ExitSuccess             = 0 // Success
	ExitError               = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError         = 2 // Configuration error (no repository, invalid config)
	ExitDataError           = 3 // Data error (malformed input, validation failure)
	ExitUnknownConcept      = 4 // Concept id not in the built space or store
	ExitNoPath              = 5 // Domains disconnected at the threshold floor
	ExitEmptyCandidateSet   = 6 // No concept besides the two domains
	ExitVectorSpaceNotBuilt = 7 // Query before the vector space was built
)

// exitCodeFor maps an engine or storage error to its exit code.
func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, vectorspace.ErrUnknownConcept), errors.Is(err, concept.ErrConceptNotFound):
		return ExitUnknownConcept
	case errors.Is(err, pathfind.ErrNoPathFound):
		return ExitNoPath
	case errors.Is(err, bridge.ErrEmptyCandidateSet):
		return ExitEmptyCandidateSet
	case errors.Is(err, vectorspace.ErrNotBuilt):
		return ExitVectorSpaceNotBuilt
	case errors.Is(err, config.ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, vectorspace.ErrEmptyID),
		errors.Is(err, novelty.ErrNegativeFrequency),
		errors.Is(err, concept.ErrEmptyID),
		errors.Is(err, concept.ErrInvalidID),
		errors.Is(err, concept.ErrDuplicateID),
		errors.Is(err, concept.ErrNegativeCitations),
		errors.Is(err, concept.ErrEmptyCitationOwner):
		return ExitDataError
	default:
		return ExitError
	}
}

// exitOnError exits with the mapped code when err is non-nil.
func exitOnError(err error, context string) {
	if err != nil {
		exitWithError(exitCodeFor(err), "%s: %v", context, err)
	}
}
