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
	"fmt"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/gatecc/preproc/internal/cc/macro"
	"github.com/gatecc/preproc/internal/cc/unit"
	"github.com/gatecc/preproc/internal/collections"
)

// Graph is one root file plus every header it transitively pulls in,
// breadth-first, each parsed exactly once.
type Graph struct {
	Root  string
	Nodes map[string]*unit.Unit
	// Order is BFS visiting order, root first.
	Order []string
}

// Driver resolves and parses one translation unit and its include closure.
// A Driver is safe to share across concurrent Process/ProcessAll calls: all
// per-walk state lives in a bfsWalk, not on the Driver itself.
type Driver struct {
	Cache      *FileCache
	SearchPath SearchPath
	// NewContext seeds each parsed unit's macro table, e.g. with a
	// platform's predefined macros. Defaults to an empty macro.New().
	NewContext func() *macro.Context
}

func NewDriver(cache *FileCache, sp SearchPath) *Driver {
	if cache == nil {
		cache = NewFileCache(nil)
	}
	return &Driver{Cache: cache, SearchPath: sp}
}

func (d *Driver) newContext() *macro.Context {
	if d.NewContext != nil {
		return d.NewContext()
	}
	return macro.New()
}

// bfsWalk holds the mutable state of one Process call that resolution needs:
// which search-path entry produced each already-resolved file, so a later
// #include_next from that file resumes the system search after it. The set
// of visited paths is kept by Process itself.
type bfsWalk struct {
	driver  *Driver
	foundIn map[string]string
}

// Process walks rootPath and everything it `#include`s, breadth-first,
// stopping at headers already visited (by resolved path) so a diamond
// dependency is parsed only once. Mirrors original_source's
// Parser::parse_all/iter.
func (d *Driver) Process(rootPath string) (*Graph, error) {
	bw := &bfsWalk{driver: d, foundIn: map[string]string{rootPath: ""}}
	g := &Graph{Root: rootPath, Nodes: make(map[string]*unit.Unit)}
	visited := make(map[string]bool)
	queue := []string{rootPath}

	for len(queue) > 0 {
		path := queue[0]
		queue = queue[1:]
		if visited[path] {
			continue
		}
		visited[path] = true

		src, err := d.Cache.Read(path)
		if err != nil {
			return nil, fmt.Errorf("include: reading %s: %w", path, err)
		}

		w := unit.New(d.newContext())
		u, err := w.Walk(src, nil)
		if err != nil {
			return nil, fmt.Errorf("include: parsing %s: %w", path, err)
		}
		g.Nodes[path] = u
		g.Order = append(g.Order, path)

		dir := filepath.Dir(path)
		// Unresolvable includes (system headers outside any configured
		// search path, optional headers guarded by a feature-test macro)
		// are common and not fatal to the rest of the graph; FilterMapSlice
		// drops them rather than aborting the walk.
		resolvedDeps := collections.FilterMapSlice(u.Dependencies, func(dep unit.Dependency) (resolvedDep, bool) {
			resolved, foundDir, err := bw.resolve(dep, dir, path)
			if err != nil {
				return resolvedDep{}, false
			}
			return resolvedDep{path: resolved, foundDir: foundDir}, true
		})
		for _, rd := range resolvedDeps {
			bw.foundIn[rd.path] = rd.foundDir
			if !visited[rd.path] {
				queue = append(queue, rd.path)
			}
		}
	}

	return g, nil
}

// resolvedDep is one dependency that resolved to a concrete file, paired
// with the search-path entry (if any) that produced it.
type resolvedDep struct {
	path     string
	foundDir string
}

func (bw *bfsWalk) resolve(dep unit.Dependency, workingDir, fromPath string) (resolved, foundDir string, err error) {
	if dep.IsNext {
		return bw.driver.SearchPath.ResolveNext(dep.Path, bw.foundIn[fromPath], bw.driver.Cache.Exists)
	}
	return bw.driver.SearchPath.Resolve(dep.Path, dep.IsSystem, workingDir, bw.driver.Cache.Exists)
}

// ProcessAll fans independent root units out concurrently, one goroutine
// per root. Concurrency is across units only: each unit's own walk remains
// a single-threaded pass.
func (d *Driver) ProcessAll(rootPaths []string) (map[string]*Graph, error) {
	var g errgroup.Group
	results := make([]*Graph, len(rootPaths))

	for i, root := range rootPaths {
		i, root := i, root
		g.Go(func() error {
			graph, err := d.Process(root)
			if err != nil {
				return err
			}
			results[i] = graph
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]*Graph, len(rootPaths))
	for i, root := range rootPaths {
		out[root] = results[i]
	}
	return out, nil
}
