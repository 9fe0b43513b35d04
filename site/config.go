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

// Package site generates a static website from a tree of Markdown files.
//
// Every Markdown file under the content directory is converted to HTML,
// substituted into a page template at the {{ Title }} and {{ Content }}
// placeholders, and written to the mirrored path under the output directory.
package site

// Config describes the directories and files a [Generator] works with.
type Config struct {
	// ContentDir is the root of the Markdown source tree.
	ContentDir string
	// TemplatePath is the HTML page template.
	TemplatePath string
	// StaticDir is copied verbatim into OutputDir before pages are generated.
	// An empty StaticDir or one that does not exist is skipped.
	StaticDir string
	// OutputDir receives the generated site.
	OutputDir string

	// ContinueOnError makes the generator log a page that fails to convert
	// and move on to the next one instead of stopping.
	ContinueOnError bool
	// Clean removes OutputDir before generating.
	// Run refuses to clean an OutputDir that is or contains
	// ContentDir, StaticDir, or TemplatePath.
	Clean bool
}

// DefaultConfig returns the conventional site layout
// relative to the working directory.
func DefaultConfig() Config {
	return Config{
		ContentDir:   "content",
		TemplatePath: "template.html",
		StaticDir:    "static",
		OutputDir:    "public",
		Clean:        true,
	}
}

// Logger is the leveled logger a [Generator] reports progress to.
// Loggers from github.com/goliatone/go-logger satisfy it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
