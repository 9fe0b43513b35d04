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

// Package corpus provides a set of Markdown documents
// paired with the HTML they convert to.
package corpus

import (
	_ "embed"
	"encoding/json"
)

// Example is a single document from the corpus.
type Example struct {
	Markdown string
	HTML     string
	Example  int
	Section  string
}

//go:embed examples.json
var examplesData []byte

// Load returns the examples in the corpus.
func Load() ([]Example, error) {
	var examples []Example
	if err := json.Unmarshal(examplesData, &examples); err != nil {
		return nil, err
	}
	return examples, nil
}
