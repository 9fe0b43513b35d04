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

// mdsite generates a static website from a directory of Markdown files.
//
// Usage:
//
//	mdsite [flags]
//
// By default, mdsite reads pages from ./content, fills in ./template.html,
// copies ./static, and writes the site to ./public.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	glog "github.com/goliatone/go-logger/glog"
	"zombiezen.com/go/mdhtml/site"
)

func main() {
	cfg := site.DefaultConfig()
	flag.StringVar(&cfg.ContentDir, "content", cfg.ContentDir, "Markdown content `dir`ectory")
	flag.StringVar(&cfg.TemplatePath, "template", cfg.TemplatePath, "HTML page template `file`")
	flag.StringVar(&cfg.StaticDir, "static", cfg.StaticDir, "`dir`ectory copied verbatim into the output")
	flag.StringVar(&cfg.OutputDir, "out", cfg.OutputDir, "output `dir`ectory")
	flag.BoolVar(&cfg.ContinueOnError, "keep-going", false, "log pages that fail to convert and continue")
	flag.BoolVar(&cfg.Clean, "clean", cfg.Clean, "remove the output directory before generating")
	logLevel := flag.String("log-level", "info", "log `level` (trace, debug, info, warn, error)")
	logFormat := flag.String("log-format", "console", "log `format` (console, json, pretty)")
	flag.Parse()
	if flag.NArg() > 0 {
		fmt.Fprintln(os.Stderr, "mdsite: unexpected arguments")
		flag.Usage()
		os.Exit(2)
	}

	root, err := newLogger(*logLevel, *logFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, "mdsite:", err)
		os.Exit(2)
	}
	logger := root.GetLogger("site")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	g := &site.Generator{Config: cfg, Logger: logger}
	err = g.Run(ctx)
	cancel()
	if err != nil {
		logger.Error("generation failed", "error", err)
		os.Exit(1)
	}
}

func newLogger(level, format string) (*glog.BaseLogger, error) {
	var options []glog.Option
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		options = append(options, glog.WithLevel(glog.Trace))
	case "debug":
		options = append(options, glog.WithLevel(glog.Debug))
	case "", "info":
		options = append(options, glog.WithLevel(glog.Info))
	case "warn", "warning":
		options = append(options, glog.WithLevel(glog.Warn))
	case "error":
		options = append(options, glog.WithLevel(glog.Error))
	default:
		return nil, fmt.Errorf("unknown log level %q", level)
	}
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "console":
		options = append(options, glog.WithLoggerTypeConsole())
	case "json":
		options = append(options, glog.WithLoggerTypeJSON())
	case "pretty":
		options = append(options, glog.WithLoggerTypePretty())
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
	return glog.NewLogger(options...), nil
}
