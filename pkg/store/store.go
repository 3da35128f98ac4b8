package store

import (
	"fmt"
	"sort"
	"sync"
)

// TripleStore is an in-memory triple store indexed two ways:
//   - SPO: Subject -> Predicate -> Object (everything about a node)
//   - POS: Predicate -> Object -> Subject (nodes with a given value)
type TripleStore struct {
	mu sync.RWMutex

	spo map[string]map[string]map[string]bool
	pos map[string]map[string]map[string]bool

	count int
}

// NewTripleStore creates an empty store.
func NewTripleStore() *TripleStore {
	return &TripleStore{
		spo: make(map[string]map[string]map[string]bool),
		pos: make(map[string]map[string]map[string]bool),
	}
}

// Add inserts a triple. Adding an existing triple is a no-op.
func (ts *TripleStore) Add(subject, predicate, object string) error {
	if subject == "" || predicate == "" || object == "" {
		return fmt.Errorf("triple components cannot be empty")
	}

	ts.mu.Lock()
	defer ts.mu.Unlock()

	ts.addUnsafe(subject, predicate, object)
	return nil
}

// BulkAdd inserts triples under a single lock. Invalid triples are skipped.
func (ts *TripleStore) BulkAdd(triples []Triple) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	for _, triple := range triples {
		if !triple.IsValid() {
			continue
		}
		ts.addUnsafe(triple.Subject, triple.Predicate, triple.Object)
	}
}

func (ts *TripleStore) addUnsafe(subject, predicate, object string) {
	if ts.existsUnsafe(subject, predicate, object) {
		return
	}

	if ts.spo[subject] == nil {
		ts.spo[subject] = make(map[string]map[string]bool)
	}
	if ts.spo[subject][predicate] == nil {
		ts.spo[subject][predicate] = make(map[string]bool)
	}
	ts.spo[subject][predicate][object] = true

	if ts.pos[predicate] == nil {
		ts.pos[predicate] = make(map[string]map[string]bool)
	}
	if ts.pos[predicate][object] == nil {
		ts.pos[predicate][object] = make(map[string]bool)
	}
	ts.pos[predicate][object][subject] = true

	ts.count++
}

// Exists checks if a specific triple is in the store.
func (ts *TripleStore) Exists(subject, predicate, object string) bool {
	ts.mu.RLock()
	defer ts.mu.RUnlock()

	return ts.existsUnsafe(subject, predicate, object)
}

func (ts *TripleStore) existsUnsafe(subject, predicate, object string) bool {
	if pMap, ok := ts.spo[subject]; ok {
		if oMap, ok := pMap[predicate]; ok {
			return oMap[object]
		}
	}
	return false
}

// Find returns triples matching the pattern. "" is a wildcard.
func (ts *TripleStore) Find(subject, predicate, object string) []Triple {
	ts.mu.RLock()
	defer ts.mu.RUnlock()

	return ts.findUnsafe(subject, predicate, object)
}

func (ts *TripleStore) findUnsafe(subject, predicate, object string) []Triple {
	var results []Triple

	matches := func(want, got string) bool {
		return want == "" || want == got
	}

	if subject != "" {
		for p, oMap := range ts.spo[subject] {
			if !matches(predicate, p) {
				continue
			}
			for o := range oMap {
				if matches(object, o) {
					results = append(results, Triple{Subject: subject, Predicate: p, Object: o})
				}
			}
		}
		return results
	}

	if predicate != "" {
		for o, sMap := range ts.pos[predicate] {
			if !matches(object, o) {
				continue
			}
			for s := range sMap {
				results = append(results, Triple{Subject: s, Predicate: predicate, Object: o})
			}
		}
		return results
	}

	for s, pMap := range ts.spo {
		for p, oMap := range pMap {
			for o := range oMap {
				if matches(object, o) {
					results = append(results, Triple{Subject: s, Predicate: p, Object: o})
				}
			}
		}
	}
	return results
}

// GetOne returns one object for a subject-predicate pair, or "".
func (ts *TripleStore) GetOne(subject, predicate string) string {
	ts.mu.RLock()
	defer ts.mu.RUnlock()

	for o := range ts.spo[subject][predicate] {
		return o
	}
	return ""
}

// Delete removes matching triples and returns how many were removed.
// "" is a wildcard.
func (ts *TripleStore) Delete(subject, predicate, object string) int {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	matches := ts.findUnsafe(subject, predicate, object)
	for _, triple := range matches {
		ts.deleteUnsafe(triple.Subject, triple.Predicate, triple.Object)
	}
	return len(matches)
}

func (ts *TripleStore) deleteUnsafe(subject, predicate, object string) {
	if !ts.existsUnsafe(subject, predicate, object) {
		return
	}

	pMap := ts.spo[subject]
	delete(pMap[predicate], object)
	if len(pMap[predicate]) == 0 {
		delete(pMap, predicate)
	}
	if len(pMap) == 0 {
		delete(ts.spo, subject)
	}

	oMap := ts.pos[predicate]
	delete(oMap[object], subject)
	if len(oMap[object]) == 0 {
		delete(oMap, object)
	}
	if len(oMap) == 0 {
		delete(ts.pos, predicate)
	}

	ts.count--
}

// Count returns the number of triples in the store.
func (ts *TripleStore) Count() int {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	return ts.count
}

// Subjects returns all unique subjects, sorted.
func (ts *TripleStore) Subjects() []string {
	ts.mu.RLock()
	defer ts.mu.RUnlock()

	subjects := make([]string, 0, len(ts.spo))
	for s := range ts.spo {
		subjects = append(subjects, s)
	}
	sort.Strings(subjects)
	return subjects
}
