package mcpserver

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/thushalya/asyncapi-tools-1/parser"
	"github.com/thushalya/asyncapi-tools-1/service"
)

// documentInput is the two ways an AsyncAPI document can be handed to a
// tool. Exactly one of File or Content must be set.
type documentInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to an AsyncAPI 2.x document on disk"`
	Content string `json:"content,omitempty" jsonschema:"Inline AsyncAPI document content (JSON or YAML)"`
}

// serviceInput is the two ways a service tree can be handed to a tool.
type serviceInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to a service tree (YAML or JSON) on disk"`
	Content string `json:"content,omitempty" jsonschema:"Inline service tree content (JSON or YAML)"`
}

func exactlyOne(file, content, what string) error {
	if (file == "") == (content == "") {
		return fmt.Errorf("exactly one of file or content must be provided for the %s", what)
	}
	return nil
}

// resolve parses the document, consulting the cache first.
func (d documentInput) resolve(s *toolServer) (*parser.ParseResult, error) {
	if err := exactlyOne(d.File, d.Content, "document"); err != nil {
		return nil, err
	}
	if int64(len(d.Content)) > s.cfg.MaxInlineSize {
		return nil, fmt.Errorf("inline content size %d bytes exceeds maximum %d bytes; use file input instead, or set ASYNCAPI_TOOLS_MAX_INLINE_SIZE to increase",
			len(d.Content), s.cfg.MaxInlineSize)
	}

	var key string
	if s.cfg.CacheEnabled {
		key = d.cacheKey()
		if cached := s.cache.get(key); cached != nil {
			s.log.Debug("document cache hit", "key", key)
			return cached, nil
		}
	}

	opts := []parser.Option{parser.WithLogger(s.log)}
	if d.File != "" {
		opts = append(opts, parser.WithFilePath(d.File))
	} else {
		opts = append(opts, parser.WithBytes([]byte(d.Content)))
	}
	result, err := parser.ParseWithOptions(opts...)
	if err != nil {
		return nil, err
	}
	if key != "" {
		s.cache.put(key, result)
	}
	return result, nil
}

// cacheKey keys files by absolute path and modification time, and inline
// content by its SHA-256 digest. An empty key disables caching.
func (d documentInput) cacheKey() string {
	if d.Content != "" {
		h := sha256.Sum256([]byte(d.Content))
		return "content:" + hex.EncodeToString(h[:])
	}
	abs, err := filepath.Abs(d.File)
	if err != nil {
		return ""
	}
	info, err := os.Stat(abs)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("file:%s:%d", abs, info.ModTime().UnixNano())
}

// load decodes the service tree.
func (in serviceInput) load(s *toolServer) (*service.Module, error) {
	if err := exactlyOne(in.File, in.Content, "service"); err != nil {
		return nil, err
	}
	if in.File != "" {
		return service.Load(in.File)
	}
	if int64(len(in.Content)) > s.cfg.MaxInlineSize {
		return nil, fmt.Errorf("inline content size %d bytes exceeds maximum %d bytes", len(in.Content), s.cfg.MaxInlineSize)
	}
	return service.LoadBytes([]byte(in.Content))
}

type cacheEntry struct {
	result    *parser.ParseResult
	touchedAt time.Time
	expiresAt time.Time
}

// documentCache is a session-scoped LRU of parsed documents with a TTL.
type documentCache struct {
	mu             sync.Mutex
	entries        map[string]*cacheEntry
	maxSize        int
	ttl            time.Duration
	sweeperStarted atomic.Bool
}

func newDocumentCache(maxSize int, ttl time.Duration) *documentCache {
	return &documentCache{entries: make(map[string]*cacheEntry), maxSize: maxSize, ttl: ttl}
}

// get returns a cached result or nil. Expired entries are removed lazily.
func (c *documentCache) get(key string) *parser.ParseResult {
	if key == "" {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil
	}
	now := time.Now()
	if now.After(e.expiresAt) {
		delete(c.entries, key)
		return nil
	}
	e.touchedAt = now
	return e.result
}

// put stores a result, evicting the least recently used entry when full.
func (c *documentCache) put(key string, result *parser.ParseResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	if _, ok := c.entries[key]; !ok && len(c.entries) >= c.maxSize {
		var oldest string
		var oldestAt time.Time
		for k, e := range c.entries {
			if oldest == "" || e.touchedAt.Before(oldestAt) {
				oldest, oldestAt = k, e.touchedAt
			}
		}
		delete(c.entries, oldest)
	}
	c.entries[key] = &cacheEntry{result: result, touchedAt: now, expiresAt: now.Add(c.ttl)}
}

func (c *documentCache) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	for k, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}
}

// startSweeper removes expired entries every interval until ctx is done.
// Only the first call starts a goroutine.
func (c *documentCache) startSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 || !c.sweeperStarted.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer c.sweeperStarted.Store(false)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.sweep()
			}
		}
	}()
}

func (c *documentCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
