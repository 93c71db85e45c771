package oracle

import (
    "fmt"
    "os"
    "sync"

    "golang.org/x/sync/singleflight"

    "frauddetect/internal/models"
)

// FileLoader deserializes the artifact on every Load.
type FileLoader struct {
    Algo    string
    Path    string
    Options models.Options
}

func (l *FileLoader) Load() (Oracle, error) {
    m, err := models.Open(l.Algo, l.Path, l.Options)
    if err != nil {
        return nil, &LoadError{Algo: l.Algo, Path: l.Path, Err: err}
    }
    return FromModel(m), nil
}

type fileStamp struct {
    modTime int64
    size    int64
}

type cacheEntry struct {
    o     Oracle
    stamp fileStamp
    refs  int
    stale bool
}

// CachedLoader keeps the last loaded oracle until the artifact's modification
// time or size changes. Concurrent reloads of the same file share one load.
// A replaced oracle is closed once the last caller holding it closes.
type CachedLoader struct {
    loader *FileLoader
    group  singleflight.Group

    mu    sync.Mutex
    entry *cacheEntry
}

func NewCachedLoader(l *FileLoader) *CachedLoader {
    return &CachedLoader{loader: l}
}

func (c *CachedLoader) Load() (Oracle, error) {
    st, err := os.Stat(c.loader.Path)
    if err != nil {
        c.invalidate()
        return nil, &LoadError{Algo: c.loader.Algo, Path: c.loader.Path, Err: err}
    }
    stamp := fileStamp{modTime: st.ModTime().UnixNano(), size: st.Size()}

    if h := c.acquire(stamp); h != nil { return h, nil }

    key := fmt.Sprintf("%d-%d", stamp.modTime, stamp.size)
    _, err, _ = c.group.Do(key, func() (any, error) {
        o, err := c.loader.Load()
        if err != nil { return nil, err }
        c.replace(&cacheEntry{o: o, stamp: stamp})
        return nil, nil
    })
    if err != nil { return nil, err }
    if h := c.acquire(stamp); h != nil { return h, nil }
    // The file changed again while loading; serve a fresh private copy.
    return c.loader.Load()
}

func (c *CachedLoader) acquire(stamp fileStamp) Oracle {
    c.mu.Lock()
    defer c.mu.Unlock()
    if c.entry == nil || c.entry.stamp != stamp { return nil }
    c.entry.refs++
    return &handle{Oracle: c.entry.o, c: c, e: c.entry}
}

func (c *CachedLoader) replace(e *cacheEntry) {
    c.mu.Lock()
    old := c.entry
    c.entry = e
    closeOld := old != nil && old.refs == 0
    if old != nil { old.stale = true }
    c.mu.Unlock()
    if closeOld { _ = old.o.Close() }
}

func (c *CachedLoader) invalidate() {
    c.mu.Lock()
    old := c.entry
    c.entry = nil
    closeOld := old != nil && old.refs == 0
    if old != nil { old.stale = true }
    c.mu.Unlock()
    if closeOld { _ = old.o.Close() }
}

func (c *CachedLoader) release(e *cacheEntry) error {
    c.mu.Lock()
    e.refs--
    closeIt := e.stale && e.refs == 0
    c.mu.Unlock()
    if closeIt { return e.o.Close() }
    return nil
}

// handle is a caller's borrowed reference to a cached oracle.
type handle struct {
    Oracle
    c    *CachedLoader
    e    *cacheEntry
    once sync.Once
}

func (h *handle) Close() error {
    var err error
    h.once.Do(func() { err = h.c.release(h.e) })
    return err
}
