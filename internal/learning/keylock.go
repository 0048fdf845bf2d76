package learning

import "sync"

const lockStripes = 64

// keyLock serializes work per (user, word) pair inside this process.
// Distinct pairs may share a stripe, which only costs some parallelism.
type keyLock struct {
	stripes [lockStripes]sync.Mutex
}

func (l *keyLock) lock(userID, wordID int64) func() {
	h := uint64(userID)*0x9E3779B97F4A7C15 ^ uint64(wordID)
	m := &l.stripes[h%lockStripes]
	m.Lock()
	return m.Unlock
}
