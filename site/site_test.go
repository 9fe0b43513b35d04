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
	"os"
	"path/filepath"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/go-cmp/cmp"
)

const testTemplate = "<title>{{ Title }}</title>\n<main>{{ Content }}</main>\n"

func TestGeneratePage(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "Basic",
			source: "# Hello\n\nSome **text**.\n",
			want:   "<title>Hello</title>\n<main><div><h1>Hello</h1><p>Some <b>text</b>.</p></div></main>\n",
		},
		{
			name:   "TitleFromFrontMatter",
			source: "---\ntitle: Custom Title\n---\n# Heading\n",
			want:   "<title>Custom Title</title>\n<main><div><h1>Heading</h1></div></main>\n",
		},
		{
			name:   "TOMLFrontMatter",
			source: "+++\ntitle = \"From TOML\"\n+++\nno heading here\n",
			want:   "<title>From TOML</title>\n<main><div><p>no heading here</p></div></main>\n",
		},
		{
			name:   "ByteOrderMark",
			source: "\ufeff# Marked\n",
			want:   "<title>Marked</title>\n<main><div><h1>Marked</h1></div></main>\n",
		},
		{
			name:   "CRLF",
			source: "# Windows\r\n\r\n- one\r\n- two\r\n",
			want:   "<title>Windows</title>\n<main><div><h1>Windows</h1><ul><li>one</li><li>two</li></ul></div></main>\n",
		},
		{
			name:   "CRLFFrontMatter",
			source: "---\r\ntitle: Framed\r\n---\r\nbody\r\n\r\nmore\r\n",
			want:   "<title>Framed</title>\n<main><div><p>body</p><p>more</p></div></main>\n",
		},
		{
			name:   "PlaceholderInContent",
			source: "# {{ Content }}\n",
			want:   "<title>{{ Content }}</title>\n<main><div><h1>{{ Content }}</h1></div></main>\n",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			dir := t.TempDir()
			src := writeFile(t, filepath.Join(dir, "page.md"), test.source)
			tmpl := writeFile(t, filepath.Join(dir, "template.html"), testTemplate)
			dest := filepath.Join(dir, "out", "nested", "page.html")

			if err := GeneratePage(context.Background(), src, tmpl, dest); err != nil {
				t.Fatal("GeneratePage:", err)
			}
			if diff := cmp.Diff(test.want, readFile(t, dest)); diff != "" {
				t.Errorf("page (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGeneratePageConversionErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"Empty", ""},
		{"Whitespace", " \n\t\n"},
		{"OnlyFrontMatter", "---\ntitle: x\n---\n"},
		{"NoTitle", "just a paragraph"},
		{"Unbalanced", "# Title\n\nsome **bold"},
		{"EmptyQuote", "# Title\n\n>"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			dir := t.TempDir()
			src := writeFile(t, filepath.Join(dir, "page.md"), test.source)
			tmpl := writeFile(t, filepath.Join(dir, "template.html"), testTemplate)
			dest := filepath.Join(dir, "page.html")

			err := GeneratePage(context.Background(), src, tmpl, dest)
			if err == nil {
				t.Fatal("GeneratePage did not return an error")
			}
			if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
				t.Errorf("GeneratePage(...) = %v; want validation error", err)
			}
			if _, err := os.Stat(dest); !errors.Is(err, os.ErrNotExist) {
				t.Errorf("destination written despite failure (stat error = %v)", err)
			}
		})
	}
}

func TestGeneratePageDraft(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, filepath.Join(dir, "page.md"), "---\ndraft: true\n---\n# Later\n")
	tmpl := writeFile(t, filepath.Join(dir, "template.html"), testTemplate)
	dest := filepath.Join(dir, "page.html")

	if err := GeneratePage(context.Background(), src, tmpl, dest); !errors.Is(err, ErrDraft) {
		t.Errorf("GeneratePage(...) = %v; want %v", err, ErrDraft)
	}
	if _, err := os.Stat(dest); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("draft written (stat error = %v)", err)
	}
}

func TestGeneratePageMissingTemplate(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, filepath.Join(dir, "page.md"), "# Hi\n")
	err := GeneratePage(context.Background(), src, filepath.Join(dir, "nope.html"), filepath.Join(dir, "page.html"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("GeneratePage(...) = %v; want %v", err, os.ErrNotExist)
	}
	if isPageError(err) {
		t.Errorf("missing template reported as a conversion failure: %v", err)
	}
}

func TestFillTemplate(t *testing.T) {
	tmpl := []byte("{{ Title }}|{{ Content }}|{{ Title }}")
	got := FillTemplate(tmpl, "T", "{{ Title }}")
	if want := "T|{{ Title }}|T"; string(got) != want {
		t.Errorf("FillTemplate(...) = %q; want %q", got, want)
	}
	if want := "{{ Title }}|{{ Content }}|{{ Title }}"; string(tmpl) != want {
		t.Errorf("template modified to %q", tmpl)
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		src     string
		want    string
		wantErr bool
	}{
		{src: "content/index.md", want: filepath.Join("public", "index.html")},
		{src: "content/blog/post.md", want: filepath.Join("public", "blog", "post.html")},
		{src: "content/blog/index.md", want: filepath.Join("public", "blog", "index.html")},
		{src: "content/a.md.md", want: filepath.Join("public", "a.md.html")},
		{src: "content/notes.txt", wantErr: true},
		{src: "content/.md", wantErr: true},
		{src: "other/page.md", wantErr: true},
	}
	for _, test := range tests {
		got, err := OutputPath("content", "public", filepath.FromSlash(test.src))
		if test.wantErr {
			if err == nil {
				t.Errorf("OutputPath(%q) = %q, <nil>; want error", test.src, got)
			}
			continue
		}
		if got != test.want || err != nil {
			t.Errorf("OutputPath(%q) = %q, %v; want %q, <nil>", test.src, got, err, test.want)
		}
	}
}

func TestCopyDir(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "static")
	writeFile(t, filepath.Join(src, "index.css"), "body{}")
	writeFile(t, filepath.Join(src, "images", "logo.svg"), "<svg/>")
	dst := filepath.Join(dir, "public")
	writeFile(t, filepath.Join(dst, "index.css"), "stale content that is longer")

	if err := CopyDir(context.Background(), src, dst); err != nil {
		t.Fatal("CopyDir:", err)
	}
	if got := readFile(t, filepath.Join(dst, "index.css")); got != "body{}" {
		t.Errorf("index.css = %q; want %q", got, "body{}")
	}
	if got := readFile(t, filepath.Join(dst, "images", "logo.svg")); got != "<svg/>" {
		t.Errorf("images/logo.svg = %q; want %q", got, "<svg/>")
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	writeFile(t, cfg.TemplatePath, testTemplate)
	writeFile(t, filepath.Join(cfg.StaticDir, "style.css"), "p{}")
	writeFile(t, filepath.Join(cfg.ContentDir, "index.md"), "# Home\n\n- [post](/blog/post.html)\n")
	writeFile(t, filepath.Join(cfg.ContentDir, "blog", "post.md"), "# Post\n\n> quoted\n")
	writeFile(t, filepath.Join(cfg.ContentDir, "blog", "draft.md"), "---\ndraft: true\n---\n# Draft\n")
	writeFile(t, filepath.Join(cfg.ContentDir, "notes.txt"), "not markdown")
	writeFile(t, filepath.Join(cfg.OutputDir, "stale.html"), "old")

	g := &Generator{Config: cfg, Logger: testLogger{t}}
	if err := g.Run(context.Background()); err != nil {
		t.Fatal("Run:", err)
	}

	want := map[string]string{
		"style.css":      "p{}",
		"index.html":     "<title>Home</title>\n<main><div><h1>Home</h1><ul><li><a href=\"/blog/post.html\">post</a></li></ul></div></main>\n",
		"blog/post.html": "<title>Post</title>\n<main><div><h1>Post</h1><blockquote>quoted</blockquote></div></main>\n",
	}
	if diff := cmp.Diff(want, readTree(t, cfg.OutputDir)); diff != "" {
		t.Errorf("output tree (-want +got):\n%s", diff)
	}
}

func TestRunMissingStatic(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	writeFile(t, cfg.TemplatePath, testTemplate)
	writeFile(t, filepath.Join(cfg.ContentDir, "index.md"), "# Home\n")

	g := &Generator{Config: cfg}
	if err := g.Run(context.Background()); err != nil {
		t.Fatal("Run:", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.OutputDir, "index.html")); err != nil {
		t.Error(err)
	}
}

func TestRunPageFailure(t *testing.T) {
	for _, keepGoing := range []bool{false, true} {
		name := "Stop"
		if keepGoing {
			name = "ContinueOnError"
		}
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			cfg := testConfig(dir)
			cfg.ContinueOnError = keepGoing
			writeFile(t, cfg.TemplatePath, testTemplate)
			writeFile(t, filepath.Join(cfg.ContentDir, "a.md"), "no title")
			writeFile(t, filepath.Join(cfg.ContentDir, "b.md"), "# B\n")

			g := &Generator{Config: cfg, Logger: testLogger{t}}
			err := g.Run(context.Background())
			if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
				t.Errorf("Run(...) = %v; want validation error", err)
			}
			_, statErr := os.Stat(filepath.Join(cfg.OutputDir, "b.html"))
			if keepGoing && statErr != nil {
				t.Errorf("page after failure not generated: %v", statErr)
			}
			if !keepGoing && !errors.Is(statErr, os.ErrNotExist) {
				t.Errorf("page after failure generated (stat error = %v)", statErr)
			}
		})
	}
}

func TestRunCanceled(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	writeFile(t, cfg.TemplatePath, testTemplate)
	writeFile(t, filepath.Join(cfg.ContentDir, "index.md"), "# Home\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g := &Generator{Config: cfg}
	if err := g.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run(canceled) = %v; want %v", err, context.Canceled)
	}
}

func TestRunRefusesToCleanWorkingDirectory(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.OutputDir = "."
	g := &Generator{Config: cfg}
	if err := g.Run(context.Background()); err == nil {
		t.Error("Run did not return an error")
	}
}

func TestRunRefusesToCleanSources(t *testing.T) {
	tests := []struct {
		name string
		out  func(cfg Config) string
	}{
		{"ContentDir", func(cfg Config) string { return cfg.ContentDir }},
		{"StaticDir", func(cfg Config) string { return cfg.StaticDir }},
		{"Parent", func(cfg Config) string { return filepath.Dir(cfg.ContentDir) }},
		{"Template", func(cfg Config) string { return cfg.TemplatePath }},
		{"Unclean", func(cfg Config) string { return filepath.Join(cfg.ContentDir, "..", "content") }},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := testConfig(t.TempDir())
			cfg.OutputDir = test.out(cfg)
			writeFile(t, cfg.TemplatePath, testTemplate)
			writeFile(t, filepath.Join(cfg.StaticDir, "style.css"), "p{}")
			page := writeFile(t, filepath.Join(cfg.ContentDir, "index.md"), "# Home\n")

			g := &Generator{Config: cfg, Logger: testLogger{t}}
			if err := g.Run(context.Background()); err == nil {
				t.Error("Run did not return an error")
			}
			for _, path := range []string{page, cfg.TemplatePath, filepath.Join(cfg.StaticDir, "style.css")} {
				if _, err := os.Stat(path); err != nil {
					t.Errorf("source removed: %v", err)
				}
			}
		})
	}
}

func TestRunCleansSiblingOutput(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	// Shares a name prefix with the content directory but does not contain it.
	cfg.OutputDir = filepath.Join(dir, "content-public")
	writeFile(t, cfg.TemplatePath, testTemplate)
	writeFile(t, filepath.Join(cfg.ContentDir, "index.md"), "# Home\n")
	writeFile(t, filepath.Join(cfg.OutputDir, "stale.html"), "old")

	g := &Generator{Config: cfg, Logger: testLogger{t}}
	if err := g.Run(context.Background()); err != nil {
		t.Fatal("Run:", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.OutputDir, "stale.html")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("stale output kept (stat error = %v)", err)
	}
}

func testConfig(dir string) Config {
	return Config{
		ContentDir:   filepath.Join(dir, "content"),
		TemplatePath: filepath.Join(dir, "template.html"),
		StaticDir:    filepath.Join(dir, "static"),
		OutputDir:    filepath.Join(dir, "public"),
		Clean:        true,
	}
}

type testLogger struct {
	tb testing.TB
}

func (l testLogger) Debug(msg string, args ...any) { l.log("DEBUG", msg, args) }
func (l testLogger) Info(msg string, args ...any)  { l.log("INFO", msg, args) }
func (l testLogger) Warn(msg string, args ...any)  { l.log("WARN", msg, args) }
func (l testLogger) Error(msg string, args ...any) { l.log("ERROR", msg, args) }

func (l testLogger) log(level, msg string, args []any) {
	l.tb.Helper()
	l.tb.Log(append([]any{level, msg}, args...)...)
}

func writeFile(tb testing.TB, path, content string) string {
	tb.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		tb.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		tb.Fatal(err)
	}
	return path
}

func readFile(tb testing.TB, path string) string {
	tb.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		tb.Fatal(err)
	}
	return string(data)
}

// readTree returns the regular files under root keyed by slash-separated path.
func readTree(tb testing.TB, root string) map[string]string {
	tb.Helper()
	files := make(map[string]string)
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files[filepath.ToSlash(rel)] = readFile(tb, path)
		return nil
	})
	if err != nil {
		tb.Fatal(err)
	}
	return files
}
