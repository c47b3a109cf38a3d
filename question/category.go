// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package question

import "sort"

// Category is one instructor-curated cluster of equivalent answers. The
// prototype is the canonical response representing the cluster; Members holds
// every response assigned to it, in the order they were added.
type Category struct {
	Key       ClusterKey
	Prototype *Response
	Members   []*Response
}

// categoryIndex maps cluster keys to categories and maintains the cached,
// deterministic category ordering that vote and cluster choices index into.
// All mutation happens under the owning Question's lock.
type categoryIndex struct {
	byKey     map[ClusterKey]*Category
	firstSeen map[ClusterKey]int
	seq       int
	sorted    []ClusterKey // cached ordering; nil when stale
	version   uint64       // bumped whenever the category set changes
}

func newCategoryIndex() *categoryIndex {
	return &categoryIndex{
		byKey:     make(map[ClusterKey]*Category),
		firstSeen: make(map[ClusterKey]int),
	}
}

// seed registers an empty category for the given prototype. Used to pre-seed
// every multiple-choice option at construction and to ensure the designated
// correct answer is always present, even with zero members.
func (ci *categoryIndex) seed(proto *Response) *Category {
	key := proto.Key()
	if cat, ok := ci.byKey[key]; ok {
		return cat
	}
	cat := &Category{Key: key, Prototype: proto}
	ci.insert(cat)
	return cat
}

func (ci *categoryIndex) insert(cat *Category) {
	ci.byKey[cat.Key] = cat
	ci.firstSeen[cat.Key] = ci.seq
	ci.seq++
	ci.invalidate()
}

// setPrototype assigns resp to a category. With a nil category, resp becomes
// the prototype of a new category of its own. Idempotent when resp is already
// a member of the target category.
func (ci *categoryIndex) setPrototype(resp *Response, cat *Category) {
	if cat == nil {
		key := ClusterKey{Mode: ByPrototype, N: resp.StudentID}
		if resp.Kind == KindChoice {
			key = ClusterKey{Mode: ByValue, N: resp.Choice}
		}
		cat = ci.byKey[key]
		if cat == nil {
			cat = &Category{Key: key, Prototype: resp}
			// The key must be present in the index before the member
			// list gains its first entry.
			ci.insert(cat)
		}
	}
	if resp.Clustered && resp.Prototype == cat.Key {
		return
	}
	resp.Clustered = true
	resp.Prototype = cat.Key
	cat.Members = append(cat.Members, resp)
}

func (ci *categoryIndex) get(key ClusterKey) (*Category, bool) {
	cat, ok := ci.byKey[key]
	return cat, ok
}

func (ci *categoryIndex) invalidate() {
	ci.sorted = nil
	ci.version++
}

// sortedKeys returns the deterministic category ordering: multiple-choice
// categories by choice index, then everything else by the order it entered
// the index. The result is cached until the category set changes; a stale
// ordering is never returned after a mutation because every mutation clears
// the cache.
func (ci *categoryIndex) sortedKeys() []ClusterKey {
	if ci.sorted != nil {
		return ci.sorted
	}
	keys := make([]ClusterKey, 0, len(ci.byKey))
	for k := range ci.byKey {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if (a.Mode == ByValue) != (b.Mode == ByValue) {
			return a.Mode == ByValue
		}
		if a.Mode == ByValue && b.Mode == ByValue {
			return a.N < b.N
		}
		return ci.firstSeen[a] < ci.firstSeen[b]
	})
	ci.sorted = keys
	return keys
}

// Slate is an immutable, atomically-published snapshot of the category
// ordering at the moment the instructor opened a choice stage. Student cluster
// and vote submissions carry indices into the slate they were shown; a version
// mismatch against the live index means the instructor has re-sorted the
// categories since, and the submission must be retried.
type Slate struct {
	Version uint64
	Keys    []ClusterKey
}

// Resolve maps a submitted choice index back to the category key it referred
// to at publication time.
func (s *Slate) Resolve(choice int) (ClusterKey, bool) {
	if s == nil || choice < 0 || choice >= len(s.Keys) {
		return ClusterKey{}, false
	}
	return s.Keys[choice], true
}
