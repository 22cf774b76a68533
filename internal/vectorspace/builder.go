package vectorspace

import (
	"crypto/sha256"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/akash1629/cross-domain/internal/logger"
	"github.com/viant/vec/search"
)

// BuildOptions configures a build.
type BuildOptions struct {
	// MaxVocabularySize caps the number of terms kept; <= 0 means DefaultMaxVocabularySize.
	MaxVocabularySize int
	Progress          ProgressReporter
	Logger            *logger.Logger
}

// Corpus stages concept descriptions for the next build. It is not safe for concurrent use.
type Corpus struct {
	descriptions map[string]string
}

// NewCorpus creates an empty corpus.
func NewCorpus() *Corpus {
	return &Corpus{descriptions: make(map[string]string)}
}

// Add stages a concept. Staging an id twice is last-write-wins; replaced reports whether
// a different description was overwritten.
func (c *Corpus) Add(id, description string) (replaced bool, err error) {
	if id == "" {
		return false, ErrEmptyID
	}
	prev, exists := c.descriptions[id]
	c.descriptions[id] = description
	return exists && prev != description, nil
}

// AddAll stages every entry of the mapping. It fails before staging anything if an id is empty.
func (c *Corpus) AddAll(concepts map[string]string) error {
	for id := range concepts {
		if id == "" {
			return ErrEmptyID
		}
	}
	for id, desc := range concepts {
		c.descriptions[id] = desc
	}
	return nil
}

// Remove unstages a concept and reports whether it was present.
func (c *Corpus) Remove(id string) bool {
	_, ok := c.descriptions[id]
	delete(c.descriptions, id)
	return ok
}

// Len returns the number of staged concepts.
func (c *Corpus) Len() int {
	return len(c.descriptions)
}

// Concepts returns a copy of the staged id -> description mapping.
func (c *Corpus) Concepts() map[string]string {
	out := make(map[string]string, len(c.descriptions))
	for id, d := range c.descriptions {
		out[id] = d
	}
	return out
}

// Build builds a new Space from the staged concepts.
func (c *Corpus) Build(opts BuildOptions) (*Space, error) {
	return Build(c.descriptions, opts)
}

// Build tokenizes every description, selects the capped vocabulary, and produces one
// unit-length TF-IDF vector per concept. The result depends only on the mapping and the
// vocabulary cap, never on map iteration order.
func Build(concepts map[string]string, opts BuildOptions) (*Space, error) {
	start := time.Now()

	maxVocab := opts.MaxVocabularySize
	if maxVocab <= 0 {
		maxVocab = DefaultMaxVocabularySize
	}

	ids := make([]string, 0, len(concepts))
	for id := range concepts {
		if id == "" {
			return nil, ErrEmptyID
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)

	// Term frequencies per concept, document frequency and corpus counts per term.
	termCounts := make([]map[string]int, len(ids))
	docFreq := make(map[string]int)
	corpusCount := make(map[string]int)
	stats := BuildStats{Concepts: len(ids)}

	for i, id := range ids {
		counts := make(map[string]int)
		for _, tok := range Tokenize(concepts[id]) {
			counts[tok]++
			corpusCount[tok]++
		}
		for term := range counts {
			docFreq[term]++
		}
		if len(counts) == 0 {
			stats.EmptyConcepts++
		}
		termCounts[i] = counts

		if opts.Progress != nil {
			opts.Progress.OnProgress(i+1, len(ids))
		}
	}
	stats.DistinctTerms = len(corpusCount)

	vocabulary := selectVocabulary(corpusCount, maxVocab)
	terms := make(map[string]int, len(vocabulary))
	for i, term := range vocabulary {
		terms[term] = i
	}
	stats.VocabularySize = len(vocabulary)

	n := float64(len(ids))
	idf := make([]float64, len(vocabulary))
	for i, term := range vocabulary {
		idf[i] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}

	position := make(map[string]int, len(ids))
	vectors := make([][]float32, len(ids))
	norms := make([]float32, len(ids))
	for i, id := range ids {
		position[id] = i
		vectors[i] = weigh(termCounts[i], terms, idf)
		norms[i] = search.Float32s(vectors[i]).Magnitude()
	}

	stats.Duration = time.Since(start)
	opts.Logger.Debug("vector space built",
		"concepts", stats.Concepts,
		"empty_concepts", stats.EmptyConcepts,
		"distinct_terms", stats.DistinctTerms,
		"vocabulary_size", stats.VocabularySize,
		"duration", stats.Duration)

	return &Space{
		vocabulary:        vocabulary,
		terms:             terms,
		idf:               idf,
		ids:               ids,
		position:          position,
		vectors:           vectors,
		norms:             norms,
		maxVocabularySize: maxVocab,
		corpusHash:        CorpusHash(concepts, maxVocab),
		createdAt:         time.Now(),
		stats:             stats,
	}, nil
}

// selectVocabulary keeps the maxSize terms with the highest corpus count (ties broken by
// term order) and returns them sorted, which fixes the dimension order.
func selectVocabulary(corpusCount map[string]int, maxSize int) []string {
	all := make([]string, 0, len(corpusCount))
	for term := range corpusCount {
		all = append(all, term)
	}
	sort.Slice(all, func(i, j int) bool {
		ci, cj := corpusCount[all[i]], corpusCount[all[j]]
		if ci != cj {
			return ci > cj
		}
		return all[i] < all[j]
	})
	if len(all) > maxSize {
		all = all[:maxSize]
	}
	sort.Strings(all)
	return all
}

// weigh computes the L2-normalised TF-IDF vector for one concept.
func weigh(counts map[string]int, terms map[string]int, idf []float64) []float32 {
	raw := make([]float64, len(idf))
	var sumSq float64
	for term, tf := range counts {
		dim, ok := terms[term]
		if !ok {
			continue // dropped by the vocabulary cap
		}
		w := float64(tf) * idf[dim]
		raw[dim] = w
		sumSq += w * w
	}

	vec := make([]float32, len(idf))
	if sumSq == 0 {
		return vec
	}
	norm := math.Sqrt(sumSq)
	for i, w := range raw {
		vec[i] = float32(w / norm)
	}
	return vec
}

// CorpusHash fingerprints a corpus and vocabulary cap. Two builds with the same hash
// produce identical spaces.
func CorpusHash(concepts map[string]string, maxVocabularySize int) string {
	ids := make([]string, 0, len(concepts))
	for id := range concepts {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	h := sha256.New()
	io.WriteString(h, strconv.Itoa(maxVocabularySize))
	for _, id := range ids {
		io.WriteString(h, "\x00")
		io.WriteString(h, id)
		io.WriteString(h, "\x00")
		io.WriteString(h, concepts[id])
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}
