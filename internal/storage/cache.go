package storage

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Tiliavir/work-journal/internal/model"
)

const defaultCacheSize = 512

// recordCache keeps decoded snapshots for the lifetime of one process. An
// entry is only served while the file's size and mtime are unchanged, so a
// rewrite by another process is picked up on the next read.
type recordCache struct {
	lru *lru.Cache[string, cachedRecord]
}

type cachedRecord struct {
	size    int64
	modTime time.Time
	snap    model.WorkSnapshot
}

func newRecordCache(size int) *recordCache {
	if size < 0 {
		return &recordCache{}
	}
	if size == 0 {
		size = defaultCacheSize
	}
	c, err := lru.New[string, cachedRecord](size)
	if err != nil {
		return &recordCache{}
	}
	return &recordCache{lru: c}
}

func (c *recordCache) get(path string, size int64, modTime time.Time) (model.WorkSnapshot, bool) {
	if c.lru == nil {
		return model.WorkSnapshot{}, false
	}
	rec, ok := c.lru.Get(path)
	if !ok || rec.size != size || !rec.modTime.Equal(modTime) {
		return model.WorkSnapshot{}, false
	}
	return rec.snap.Clone(), true
}

func (c *recordCache) put(path string, size int64, modTime time.Time, snap model.WorkSnapshot) {
	if c.lru == nil {
		return
	}
	c.lru.Add(path, cachedRecord{size: size, modTime: modTime, snap: snap.Clone()})
}

func (c *recordCache) forget(path string) {
	if c.lru == nil {
		return
	}
	c.lru.Remove(path)
}
