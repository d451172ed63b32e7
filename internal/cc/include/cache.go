// Copyright 2026 EngFlow Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package include

import (
	"os"
	"sync"

	"golang.org/x/sync/singleflight"
)

// FileReader is a pluggable file-reading collaborator: a caller may
// substitute an in-memory or remote filesystem, but this package ships
// DiskReader so the engine is runnable standalone.
type FileReader interface {
	ReadFile(path string) (string, error)
	Exists(path string) bool
}

// DiskReader reads from the real filesystem.
type DiskReader struct{}

func (DiskReader) ReadFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (DiskReader) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// FileCache memoizes ReadFile by resolved path and collapses concurrent
// reads of the same header into a single underlying call, the way multiple
// sibling units in the same BFS level commonly `#include` the same shared
// header (e.g. a project-wide "config.h").
type FileCache struct {
	reader FileReader
	group  singleflight.Group

	mu    sync.RWMutex
	cache map[string]string
}

func NewFileCache(reader FileReader) *FileCache {
	if reader == nil {
		reader = DiskReader{}
	}
	return &FileCache{reader: reader, cache: make(map[string]string)}
}

func (c *FileCache) Exists(path string) bool { return c.reader.Exists(path) }

func (c *FileCache) Read(path string) (string, error) {
	c.mu.RLock()
	if src, ok := c.cache[path]; ok {
		c.mu.RUnlock()
		return src, nil
	}
	c.mu.RUnlock()

	v, err, _ := c.group.Do(path, func() (any, error) {
		c.mu.RLock()
		cached, ok := c.cache[path]
		c.mu.RUnlock()
		if ok {
			return cached, nil
		}
		src, err := c.reader.ReadFile(path)
		if err != nil {
			return "", err
		}
		c.mu.Lock()
		c.cache[path] = src
		c.mu.Unlock()
		return src, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}
