// Package session holds the process-wide upload session: an ordered,
// mutable collection of image records. It is the only stateful entity in
// the system and has no persistence; a restart or explicit clear discards
// everything.
package session

import (
	"os"
	"sync"

	"github.com/saturnino-fabrica-de-software/facex/internal/domain"
)

// Store is an ordered collection of ImageRecord keyed by insertion-order
// id. All mutation goes through Append, UpdateAnalysis and Clear; handlers
// never touch record fields directly. A mutex guards the collection since
// the HTTP server is concurrent, and an in-flight set guarantees at most
// one running analysis per record.
type Store struct {
	mu        sync.Mutex
	records   []*domain.ImageRecord
	analyzing map[int]struct{}

	// generation counts session clears. Ids restart at 0 after Clear, so
	// an id alone cannot identify a record across a clear; results
	// computed under an older generation are refused.
	generation int
}

func NewStore() *Store {
	return &Store{
		analyzing: make(map[int]struct{}),
	}
}

// Append assigns the next sequential id and inserts the record at the end.
// The record's id is returned.
func (s *Store) Append(rec domain.ImageRecord) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec.ID = len(s.records)
	s.records = append(s.records, &rec)
	return rec.ID
}

// Get returns a copy of the record with the given id. The copy shares the
// immutable image bytes but not the analysis pointer, so callers cannot
// mutate session state through it.
func (s *Store) Get(id int) (domain.ImageRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id < 0 || id >= len(s.records) {
		return domain.ImageRecord{}, domain.ErrRecordNotFound
	}
	return copyRecord(s.records[id]), nil
}

// Len returns the number of records in the session.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Snapshot returns copies of all records in insertion order.
func (s *Store) Snapshot() []domain.ImageRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.ImageRecord, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, copyRecord(rec))
	}
	return out
}

// UpdateAnalysis attaches a completed analysis and its scratch artifact to
// an existing record, replacing any previous result. A superseded artifact
// file is removed best-effort so re-analysis does not leak scratch files.
//
// gen is the token handed out by BeginAnalysis. A result carrying a stale
// token (the session was cleared while the analysis ran) is refused, so a
// record of the next session never receives another image's analysis; the
// rejected result's artifact has no owner and is released here.
func (s *Store) UpdateAnalysis(id, gen int, result *domain.AnalysisResult, artifactPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation || id < 0 || id >= len(s.records) {
		if artifactPath != "" {
			removeQuiet(artifactPath)
		}
		return domain.ErrRecordNotFound
	}

	rec := s.records[id]
	if rec.ArtifactPath != "" && rec.ArtifactPath != artifactPath {
		removeQuiet(rec.ArtifactPath)
	}
	rec.Analysis = result
	rec.ArtifactPath = artifactPath
	return nil
}

// BeginAnalysis marks a record as having an analysis in flight. It fails
// with ErrRecordNotFound for unknown ids and ErrAnalysisInProgress when an
// analysis is already running, which makes a duplicate trigger a no-op
// instead of a duplicate inference call.
//
// The returned generation token must be passed back to UpdateAnalysis and
// EndAnalysis; a Clear between the calls invalidates it.
func (s *Store) BeginAnalysis(id int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id < 0 || id >= len(s.records) {
		return 0, domain.ErrRecordNotFound
	}
	if _, busy := s.analyzing[id]; busy {
		return 0, domain.ErrAnalysisInProgress
	}
	s.analyzing[id] = struct{}{}
	return s.generation, nil
}

// EndAnalysis clears the in-flight mark set by BeginAnalysis. With a stale
// token it is a no-op: the mark was already wiped by Clear, and a mark set
// by the next session's analysis must not be released by this one.
func (s *Store) EndAnalysis(id, gen int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		return
	}
	delete(s.analyzing, id)
}

// Clear removes every scratch artifact referenced by a record
// (best-effort; missing files are fine) and empties the collection.
// Calling it on an empty store is a no-op.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range s.records {
		if rec.ArtifactPath != "" {
			removeQuiet(rec.ArtifactPath)
		}
	}
	s.records = nil
	s.analyzing = make(map[int]struct{})
	s.generation++
}

func copyRecord(rec *domain.ImageRecord) domain.ImageRecord {
	out := *rec
	if rec.Analysis != nil {
		analysis := *rec.Analysis
		analysis.EmotionScores = copyScores(rec.Analysis.EmotionScores)
		analysis.RaceScores = copyScores(rec.Analysis.RaceScores)
		out.Analysis = &analysis
	}
	return out
}

func copyScores(scores map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(scores))
	for k, v := range scores {
		out[k] = v
	}
	return out
}

// removeQuiet deletes a scratch artifact best-effort. Cleanup must never
// fail the session operation that triggered it, and a file that is already
// gone is fine.
func removeQuiet(path string) {
	_ = os.Remove(path)
}
