package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/goccy/go-json"
	"github.com/tchap/go-patricia/v2/patricia"
)

// Resource names inside the data directory. Partitions follow
// names_<sex>_NNNN.json, mirroring how the offline ingestion step writes them.
const (
	manifestFile = "manifest.json"
	indexFile    = "index.json"
)

// Manifest enumerates the partition layout and the year span of the dataset.
type Manifest struct {
	Chunks  map[Sex]int `json:"chunks"`
	MinYear int         `json:"min_year"`
	MaxYear int         `json:"max_year"`
}

// Store owns the loaded corpus: full records, the lightweight index, and a
// get-or-load cache keyed by resource name. Resources are fetched once and
// kept for the process lifetime; a restart is the only refresh path.
//
// Records are never mutated after load, so concurrent searches over the same
// Store need no synchronization beyond the cache's own mutex.
type Store struct {
	dirPath string

	mu          sync.RWMutex
	loaded      map[string]bool // resource name -> fetched (even if empty)
	partitions  map[string][]*NameRecord
	records     map[string]*NameRecord
	bySex       map[Sex][]*NameRecord
	index       []IndexEntry
	indexTrie   *patricia.Trie
	manifest    *Manifest
	latestYear  int
	failedLoads int
}

// NewStore creates a Store over a data directory produced by the ingestion
// step. Nothing is read until the first load call.
func NewStore(dirPath string) *Store {
	return &Store{
		dirPath:    dirPath,
		loaded:     make(map[string]bool),
		partitions: make(map[string][]*NameRecord),
		records:    make(map[string]*NameRecord),
		bySex:      make(map[Sex][]*NameRecord),
		indexTrie:  patricia.NewTrie(),
	}
}

func partitionFile(sex Sex, chunk int) string {
	return fmt.Sprintf("names_%s_%04d.json", sex, chunk)
}

// readResource slurps one file from the data dir. Callers treat any error as
// "resource unavailable" and degrade to an empty result.
func (s *Store) readResource(name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dirPath, name))
	if err != nil {
		return nil, fmt.Errorf("read resource %s: %w", name, err)
	}
	return data, nil
}

// LoadManifest fetches and caches the dataset manifest. A missing manifest
// degrades to an empty one so downstream loads simply find no chunks.
func (s *Store) LoadManifest() *Manifest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadManifestLocked()
}

func (s *Store) loadManifestLocked() *Manifest {
	if s.loaded[manifestFile] {
		return s.manifest
	}
	s.loaded[manifestFile] = true
	s.manifest = &Manifest{Chunks: make(map[Sex]int)}

	data, err := s.readResource(manifestFile)
	if err != nil {
		log.Warnf("Manifest unavailable, dataset treated as empty: %v", err)
		s.failedLoads++
		return s.manifest
	}
	if err := json.Unmarshal(data, s.manifest); err != nil {
		log.Warnf("Malformed manifest, dataset treated as empty: %v", err)
		s.failedLoads++
		s.manifest = &Manifest{Chunks: make(map[Sex]int)}
		return s.manifest
	}
	if s.manifest.Chunks == nil {
		s.manifest.Chunks = make(map[Sex]int)
	}
	s.latestYear = s.manifest.MaxYear
	log.Debugf("Manifest loaded: %d..%d, chunks f=%d m=%d",
		s.manifest.MinYear, s.manifest.MaxYear,
		s.manifest.Chunks[Female], s.manifest.Chunks[Male])
	return s.manifest
}

// LatestYear returns the most recent year covered by the dataset.
func (s *Store) LatestYear() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadManifestLocked()
	return s.latestYear
}

// LoadIndex fetches and caches the lightweight search index. Missing or
// malformed index data yields an empty slice, never an error: downstream
// search treats "no data" and "no match" identically.
func (s *Store) LoadIndex() []IndexEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded[indexFile] {
		return s.index
	}
	s.loaded[indexFile] = true

	data, err := s.readResource(indexFile)
	if err != nil {
		log.Warnf("Index unavailable: %v", err)
		s.failedLoads++
		return nil
	}
	var entries []IndexEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Warnf("Malformed index: %v", err)
		s.failedLoads++
		return nil
	}

	s.index = entries
	for i := range entries {
		e := entries[i]
		s.indexTrie.Insert(patricia.Prefix(Key(e.Name, e.Sex)), e)
	}
	log.Debugf("Index loaded: %d entries", len(entries))
	return s.index
}

// LookupPrefix walks the index trie and returns up to limit entries whose
// name starts with prefix (case-insensitive), without touching full records.
func (s *Store) LookupPrefix(prefix string, limit int) []IndexEntry {
	s.LoadIndex()

	s.mu.RLock()
	defer s.mu.RUnlock()

	lower := strings.ToLower(prefix)
	var out []IndexEntry
	err := s.indexTrie.VisitSubtree(patricia.Prefix(lower), func(p patricia.Prefix, item patricia.Item) error {
		if limit > 0 && len(out) >= limit {
			return nil
		}
		entry, ok := item.(IndexEntry)
		if !ok {
			log.Errorf("Unexpected index item type %T for key %s", item, p)
			return nil
		}
		out = append(out, entry)
		return nil
	})
	if err != nil {
		log.Errorf("Index trie walk failed: %v", err)
		return nil
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

// LoadPartition fetches one gender-partitioned chunk and merges its records
// into the store. Already-fetched chunks are served from cache. A missing or
// malformed chunk logs a warning and returns nil.
func (s *Store) LoadPartition(sex Sex, chunk int) []*NameRecord {
	resource := partitionFile(sex, chunk)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded[resource] {
		return s.partitions[resource]
	}
	s.loaded[resource] = true

	data, err := s.readResource(resource)
	if err != nil {
		log.Warnf("Partition %s unavailable: %v", resource, err)
		s.failedLoads++
		return nil
	}
	var recs []*NameRecord
	if err := json.Unmarshal(data, &recs); err != nil {
		log.Warnf("Malformed partition %s: %v", resource, err)
		s.failedLoads++
		return nil
	}

	added := make([]*NameRecord, 0, len(recs))
	for _, r := range recs {
		if r == nil || r.Name == "" {
			continue
		}
		if r.Sex == "" {
			r.Sex = sex
		}
		key := Key(r.Name, r.Sex)
		if _, dup := s.records[key]; dup {
			continue
		}
		s.records[key] = r
		s.bySex[r.Sex] = append(s.bySex[r.Sex], r)
		added = append(added, r)
	}
	if len(added) > 0 {
		s.partitions[resource] = added
	}
	log.Debugf("Partition %s loaded: %d records", resource, len(added))
	return added
}

// LoadAll walks the manifest and loads every partition of every sex.
func (s *Store) LoadAll() {
	m := s.LoadManifest()
	for sex, count := range m.Chunks {
		for chunk := 1; chunk <= count; chunk++ {
			s.LoadPartition(sex, chunk)
		}
	}
}

// LoadSex loads every partition for one sex.
func (s *Store) LoadSex(sex Sex) {
	m := s.LoadManifest()
	for chunk := 1; chunk <= m.Chunks[sex]; chunk++ {
		s.LoadPartition(sex, chunk)
	}
}

// Record looks up a single record by name and sex, case-insensitively.
func (s *Store) Record(name string, sex Sex) (*NameRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[Key(name, sex)]
	return r, ok
}

// Records returns the loaded records for one sex, or all loaded records when
// sex is empty. The returned slice is shared; callers must not mutate it.
func (s *Store) Records(sex Sex) []*NameRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if sex != "" {
		return s.bySex[sex]
	}
	all := make([]*NameRecord, 0, len(s.records))
	for _, sexRecords := range [][]*NameRecord{s.bySex[Female], s.bySex[Male]} {
		all = append(all, sexRecords...)
	}
	return all
}

// StoreStats reports what has been materialized so far.
type StoreStats struct {
	Records     int
	IndexSize   int
	LoadedRes   int
	FailedLoads int
	LatestYear  int
}

// Stats returns current load statistics.
func (s *Store) Stats() StoreStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return StoreStats{
		Records:     len(s.records),
		IndexSize:   len(s.index),
		LoadedRes:   len(s.loaded),
		FailedLoads: s.failedLoads,
		LatestYear:  s.latestYear,
	}
}
