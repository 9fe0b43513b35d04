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
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/frontmatter"
	goerrors "github.com/goliatone/go-errors"
	"go4.org/bytereplacer"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"zombiezen.com/go/mdhtml"
)

// Template placeholders.
const (
	TitlePlaceholder   = "{{ Title }}"
	ContentPlaceholder = "{{ Content }}"
)

const pageConversionFailed = "PAGE_CONVERSION_FAILED"

// ErrDraft is returned by [GeneratePage]
// when the source's front matter marks it as a draft.
var ErrDraft = errors.New("site: page is a draft")

// errEmptySource is reported for sources with no Markdown content.
var errEmptySource = errors.New("source is empty")

// pageMeta is the front matter a page may start with.
type pageMeta struct {
	Title string `yaml:"title" toml:"title" json:"title"`
	Draft bool   `yaml:"draft" toml:"draft" json:"draft"`
}

// GeneratePage converts the Markdown file at src to HTML,
// fills in the template at templatePath, and writes the result to dest,
// creating dest's parent directories as needed.
//
// The page title comes from the source's front matter if present,
// otherwise from its first "# " heading.
// Failures to convert the source are reported
// with the [goerrors.CategoryValidation] category;
// nothing is written in that case.
func GeneratePage(ctx context.Context, src, templatePath, dest string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	source, err := readText(src)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(source)) == 0 {
		return pageError(src, errEmptySource)
	}
	var meta pageMeta
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return pageError(src, fmt.Errorf("front matter: %w", err))
	}
	if meta.Draft {
		return ErrDraft
	}
	markdown := string(body)
	if strings.TrimSpace(markdown) == "" {
		return pageError(src, errEmptySource)
	}

	root, err := mdhtml.BuildDocument(markdown)
	if err != nil {
		return pageError(src, err)
	}
	content, err := mdhtml.Render(root)
	if err != nil {
		return pageError(src, err)
	}
	title := strings.TrimSpace(meta.Title)
	if title == "" {
		title, err = mdhtml.ExtractTitle(markdown)
		if err != nil {
			return pageError(src, err)
		}
	}

	tmpl, err := os.ReadFile(templatePath)
	if err != nil {
		return fmt.Errorf("site: read template: %w", err)
	}
	page := FillTemplate(tmpl, title, content)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("site: %w", err)
	}
	if err := os.WriteFile(dest, page, 0o644); err != nil {
		return fmt.Errorf("site: %w", err)
	}
	return nil
}

// FillTemplate returns a copy of tmpl with every [TitlePlaceholder]
// replaced by title and every [ContentPlaceholder] replaced by content.
// Substitution is a single pass,
// so placeholders inside title or content are left as is.
func FillTemplate(tmpl []byte, title, content string) []byte {
	r := bytereplacer.New(
		TitlePlaceholder, title,
		ContentPlaceholder, content,
	)
	// Replace works in place.
	return r.Replace(bytes.Clone(tmpl))
}

var lineEndings = bytereplacer.New("\r\n", "\n")

// readText reads a UTF-8 text file,
// dropping a leading byte order mark and converting CRLF line endings to LF.
func readText(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("site: %w", err)
	}
	defer f.Close()
	data, err := io.ReadAll(transform.NewReader(f, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	if err != nil {
		return nil, fmt.Errorf("site: read %s: %w", path, err)
	}
	return lineEndings.Replace(data), nil
}

func pageError(src string, err error) error {
	return goerrors.Wrap(err, goerrors.CategoryValidation, fmt.Sprintf("convert %s", src)).
		WithTextCode(pageConversionFailed)
}

// isPageError reports whether err is a conversion failure from [GeneratePage].
func isPageError(err error) bool {
	return goerrors.IsCategory(err, goerrors.CategoryValidation)
}
