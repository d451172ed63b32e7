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

// Package include resolves `#include` directives discovered by
// internal/cc/unit into a breadth-first dependency graph, reading each
// header at most once regardless of how many units reach it.
package include

import (
	"errors"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrNotFound is returned when no search-path entry contains the requested
// header.
var ErrNotFound = errors.New("include: not found on any search path")

// SearchPath holds the ordered directory lists consulted when resolving a
// `#include`, mirroring a compiler's quote ("-iquote"/current-directory)
// and system ("-I"/"-isystem") search paths.
type SearchPath struct {
	// Quoted is consulted, after the including file's own directory, for
	// `#include "path"`.
	Quoted []string
	// System is consulted for `#include <path>`, and as the final fallback
	// for `#include "path"` (a quoted include that isn't found locally may
	// still resolve against the system paths, matching most compilers).
	System []string
	// ExcludeGlobs filters out resolved candidates matching any of these
	// doublestar patterns before they are accepted, the same pattern used
	// to allow/exclude header paths.
	ExcludeGlobs []string
}

func (sp SearchPath) excluded(path string) bool {
	for _, g := range sp.ExcludeGlobs {
		if doublestar.MatchUnvalidated(g, path) {
			return true
		}
	}
	return false
}

// Resolve turns one dependency path into an absolute (or working-directory
// relative) filesystem path, given the directory the including file lives
// in. exists is injected so callers can resolve against an in-memory or
// remote filesystem as well as the real one. foundDir is the System search
// entry the path was found under, or "" if it resolved locally/quoted;
// ResolveNext uses it to resume the search for a later `#include_next`.
func (sp SearchPath) Resolve(path string, isSystem bool, workingDir string, exists func(string) bool) (resolved, foundDir string, err error) {
	if isSystem {
		return sp.resolveSystem(path, exists, 0)
	}
	if p, ok := sp.resolveQuoted(path, workingDir, exists); ok {
		return p, "", nil
	}
	return sp.resolveSystem(path, exists, 0)
}

func (sp SearchPath) resolveSystem(path string, exists func(string) bool, start int) (resolved, foundDir string, err error) {
	for _, dir := range sp.System[start:] {
		candidate := filepath.Join(dir, path)
		if sp.excluded(candidate) {
			continue
		}
		if exists(candidate) {
			return candidate, dir, nil
		}
	}
	return "", "", ErrNotFound
}

func (sp SearchPath) resolveQuoted(path, workingDir string, exists func(string) bool) (string, bool) {
	local := filepath.Join(workingDir, path)
	if !sp.excluded(local) && exists(local) {
		return local, true
	}
	for _, dir := range sp.Quoted {
		candidate := filepath.Join(dir, path)
		if sp.excluded(candidate) {
			continue
		}
		if exists(candidate) {
			return candidate, true
		}
	}
	return "", false
}

// ResolveNext implements `#include_next`: it searches only the System list
// (no local-directory or Quoted lookup), resuming after the entry equal to
// fromDir, or from the first system path when fromDir is not in the list.
func (sp SearchPath) ResolveNext(path, fromDir string, exists func(string) bool) (resolved, foundDir string, err error) {
	start := 0
	for i, dir := range sp.System {
		if dir == fromDir {
			start = i + 1
			break
		}
	}
	return sp.resolveSystem(path, exists, start)
}
