// Copyright 2024 Ross Light
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//		 https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package site

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	markdownExt = ".md"
	htmlExt     = ".html"
)

// A Generator builds a site from a [Config].
type Generator struct {
	Config Config
	// Logger receives progress messages. If nil, nothing is logged.
	Logger Logger
}

// Run generates the site.
// It removes the output directory if Config.Clean is set,
// copies the static directory into it,
// and then generates a page for every Markdown file in the content tree.
//
// If Config.ContinueOnError is set, pages that fail to convert are logged
// and Run returns the joined page errors after processing every page.
// Otherwise Run stops at the first failure.
// Cancelling ctx stops Run before the next file.
func (g *Generator) Run(ctx context.Context) error {
	log := g.Logger
	if log == nil {
		log = nopLogger{}
	}
	cfg := g.Config
	if cfg.ContentDir == "" || cfg.OutputDir == "" {
		return errors.New("site: content and output directories required")
	}

	if cfg.Clean {
		if err := cleanDir(cfg.OutputDir, cfg.ContentDir, cfg.StaticDir, cfg.TemplatePath); err != nil {
			return err
		}
		log.Debug("removed output directory", "dir", cfg.OutputDir)
	}
	if cfg.StaticDir != "" {
		switch err := CopyDir(ctx, cfg.StaticDir, cfg.OutputDir); {
		case errors.Is(err, fs.ErrNotExist) && !isDestError(err):
			log.Warn("static directory not found", "dir", cfg.StaticDir)
		case err != nil:
			return err
		default:
			log.Info("copied static files", "from", cfg.StaticDir, "to", cfg.OutputDir)
		}
	}

	var (
		generated int
		skipped   int
		failures  []error
	)
	err := filepath.WalkDir(cfg.ContentDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != markdownExt {
			return nil
		}
		dest, err := OutputPath(cfg.ContentDir, cfg.OutputDir, path)
		if err != nil {
			return err
		}
		log.Debug("generating page", "src", path, "dest", dest)
		err = GeneratePage(ctx, path, cfg.TemplatePath, dest)
		switch {
		case err == nil:
			generated++
		case errors.Is(err, ErrDraft):
			log.Info("skipping draft", "src", path)
			skipped++
		case cfg.ContinueOnError && isPageError(err):
			log.Error("page failed", "src", path, "error", err)
			failures = append(failures, err)
		default:
			return err
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("site: generate: %w", err)
	}
	log.Info("site generated",
		"pages", generated,
		"drafts", skipped,
		"failed", len(failures),
	)
	return errors.Join(failures...)
}

// OutputPath returns the path of the page generated
// for the Markdown file src in the content tree rooted at contentRoot.
// The page has the same path relative to outRoot,
// with the ".md" extension replaced by ".html".
func OutputPath(contentRoot, outRoot, src string) (string, error) {
	rel, err := filepath.Rel(contentRoot, src)
	if err != nil {
		return "", fmt.Errorf("site: output path: %w", err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("site: output path: %s is outside %s", src, contentRoot)
	}
	base, ok := strings.CutSuffix(rel, markdownExt)
	if !ok || filepath.Base(rel) == markdownExt {
		return "", fmt.Errorf("site: output path: %s is not a Markdown file", src)
	}
	return filepath.Join(outRoot, base+htmlExt), nil
}

// CopyDir copies the directory tree at src into dst,
// creating dst if needed and overwriting existing files.
func CopyDir(ctx context.Context, src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return &copyError{err}
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if err := copyFile(target, path); err != nil {
			return &copyError{err}
		}
		return nil
	})
}

func copyFile(dst, src string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	info, err := in.Stat()
	if err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := out.Close(); err == nil {
			err = closeErr
		}
	}()
	_, err = io.Copy(out, in)
	return err
}

// copyError marks a failure writing the destination tree,
// as opposed to reading the source tree.
type copyError struct {
	err error
}

func (e *copyError) Error() string { return "site: copy: " + e.err.Error() }
func (e *copyError) Unwrap() error { return e.err }

func isDestError(err error) bool {
	var ce *copyError
	return errors.As(err, &ce)
}

// cleanDir removes dir unless doing so would also remove
// one of the keep paths.
func cleanDir(dir string, keep ...string) error {
	switch filepath.Clean(dir) {
	case ".", string(filepath.Separator):
		return fmt.Errorf("site: refusing to remove %q", dir)
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("site: clean: %w", err)
	}
	for _, path := range keep {
		if path == "" {
			continue
		}
		absPath, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("site: clean: %w", err)
		}
		if within(absDir, absPath) {
			return fmt.Errorf("site: refusing to remove %q: it contains %q", dir, path)
		}
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("site: clean: %w", err)
	}
	return nil
}

// within reports whether path is dir or lies under it.
// Both paths must be absolute.
func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
