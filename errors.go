// Copyright 2023 Ross Light
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

package mdhtml

import (
	"errors"
	"fmt"
)

// ErrNoTitle is returned by [ExtractTitle]
// when a document has no level-1 heading.
var ErrNoTitle = errors.New("no level-1 heading found")

// StructuralError is returned when rendering a malformed node:
// a container with no children or no tag,
// or a tagged leaf (other than img) with no text.
type StructuralError struct {
	Tag    string
	Reason string
}

func (e *StructuralError) Error() string {
	if e.Tag == "" {
		return "render html: " + e.Reason
	}
	return fmt.Sprintf("render html: <%s>: %s", e.Tag, e.Reason)
}

// UnbalancedDelimiterError is returned by [Tokenize]
// when an inline delimiter is opened without a matching close.
type UnbalancedDelimiterError struct {
	Delimiter string
}

func (e *UnbalancedDelimiterError) Error() string {
	return fmt.Sprintf("unbalanced delimiter %q", e.Delimiter)
}
