package autosave

import (
	"sync"

	id "github.com/sampleslayer92/utopia-produkcia-sub005/pkg/domain"
)

// numLockShards spreads case ids over independent mutexes so unrelated cases
// never contend on one lock.
const numLockShards = 64

// CaseLocks is a per-case-id mutual exclusion set. It is owned by whoever
// constructs it and passed by reference; there is no process-wide instance.
type CaseLocks struct {
	shards [numLockShards]lockShard
}

type lockShard struct {
	mu   sync.Mutex
	held map[id.CaseID]struct{}
}

func NewCaseLocks() *CaseLocks {
	l := &CaseLocks{}
	for i := range l.shards {
		l.shards[i].held = make(map[id.CaseID]struct{})
	}
	return l
}

// TryAcquire marks caseID as held. It returns false without waiting when
// another holder already has it.
func (l *CaseLocks) TryAcquire(caseID id.CaseID) bool {
	s := l.shard(caseID)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.held[caseID]; busy {
		return false
	}
	s.held[caseID] = struct{}{}
	return true
}

// Release frees caseID. Releasing a case that is not held is a no-op.
func (l *CaseLocks) Release(caseID id.CaseID) {
	s := l.shard(caseID)
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.held, caseID)
}

// Held reports whether caseID is currently held.
func (l *CaseLocks) Held(caseID id.CaseID) bool {
	s := l.shard(caseID)
	s.mu.Lock()
	defer s.mu.Unlock()
	_, busy := s.held[caseID]
	return busy
}

func (l *CaseLocks) shard(caseID id.CaseID) *lockShard {
	return &l.shards[hashCaseID(caseID)%numLockShards]
}

// hashCaseID is FNV-1a over the id bytes.
func hashCaseID(caseID id.CaseID) uint32 {
	const (
		fnvOffset = 2166136261
		fnvPrime  = 16777619
	)
	h := uint32(fnvOffset)
	for _, b := range caseID {
		h ^= uint32(b)
		h *= fnvPrime
	}
	return h
}
