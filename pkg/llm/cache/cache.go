// Package cache persists provider responses on disk, keyed by a digest of
// the request. Caching is a cost optimization, never a correctness
// dependency: every storage failure degrades to a miss or a no-op.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/restforge/restforge/pkg/llm"
	pkgLogger "github.com/restforge/restforge/pkg/logger"
)

const entrySuffix = ".json"

// cacheKey pins the field order of the canonical request serialization.
// Changing this struct invalidates every existing cache entry.
type cacheKey struct {
	Prompt       string         `json:"prompt"`
	SystemPrompt string         `json:"system_prompt,omitempty"`
	Temperature  *float64       `json:"temperature,omitempty"`
	MaxTokens    int            `json:"max_tokens,omitempty"`
	Schema       map[string]any `json:"schema,omitempty"`
}

// Cache is a content-addressable response store: one file per key under a
// root directory. Writes are whole-file replacements and the key is a pure
// function of the request, so concurrent writers for the same key produce
// identical content and need no locking.
type Cache struct {
	dir     string
	enabled bool
	logger  *pkgLogger.Logger
}

// New creates a cache rooted at dir. When enabled is false, Get always
// misses and Set is a no-op; the interface shape is unchanged so callers
// need no branching.
func New(dir string, enabled bool) *Cache {
	return &Cache{
		dir:     dir,
		enabled: enabled,
		logger:  pkgLogger.NewComponentLogger("llm-cache"),
	}
}

// Enabled reports whether the cache persists anything.
func (c *Cache) Enabled() bool {
	return c.enabled
}

// Key returns the hex digest identifying req. Requests with identical field
// values always produce the same key; nil and absent optional fields are
// the same thing.
func (c *Cache) Key(req *llm.Request) string {
	payload, err := json.Marshal(cacheKey{
		Prompt:       req.Prompt,
		SystemPrompt: req.SystemPrompt,
		Temperature:  req.Temperature,
		MaxTokens:    req.MaxTokens,
		Schema:       req.Schema,
	})
	if err != nil {
		// Marshal of plain strings/numbers/maps cannot fail in practice;
		// fall back to hashing the prompt alone.
		return fmt.Sprintf("%016x", xxhash.Sum64String(req.Prompt))
	}
	return fmt.Sprintf("%016x", xxhash.Sum64(payload))
}

// Get returns the cached response for req, or ok=false on miss. Absence and
// corruption are both misses; they are told apart only in logs.
func (c *Cache) Get(req *llm.Request) (*llm.Response, bool) {
	if !c.enabled {
		return nil, false
	}

	key := c.Key(req)
	data, err := os.ReadFile(c.entryPath(key))
	if err != nil {
		if !os.IsNotExist(err) {
			c.logger.Debug("cache read failed", "key", key, "error", err)
		}
		return nil, false
	}

	var stored llm.Response
	if err := json.Unmarshal(data, &stored); err != nil {
		c.logger.Warn("cache entry corrupt, treating as miss", "key", key, "error", err)
		return nil, false
	}

	// Shallow copy with the cache flag forced; the on-disk record stays as
	// written.
	resp := stored
	resp.Cached = true
	return &resp, true
}

// Set persists resp under req's key. Failures are logged and swallowed.
func (c *Cache) Set(req *llm.Request, resp *llm.Response) {
	if !c.enabled || resp == nil {
		return
	}

	key := c.Key(req)
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		c.logger.Warn("cache dir unavailable, skipping write", "dir", c.dir, "error", err)
		return
	}

	stored := *resp
	stored.Cached = false

	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		c.logger.Warn("cache entry marshal failed, skipping write", "key", key, "error", err)
		return
	}

	if err := os.WriteFile(c.entryPath(key), data, 0o644); err != nil {
		c.logger.Warn("cache write failed", "key", key, "error", err)
	}
}

// Clear removes every persisted entry. Best-effort against concurrent
// get/set: an entry written during the sweep may or may not survive.
func (c *Cache) Clear() error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var firstErr error
	removed := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), entrySuffix) {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, e.Name())); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		removed++
	}

	c.logger.Info("cache cleared", "entries", removed)
	return firstErr
}

func (c *Cache) entryPath(key string) string {
	return filepath.Join(c.dir, key+entrySuffix)
}
