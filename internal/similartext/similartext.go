// Copyright 2025 Starspread Contributors
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

// Package similartext suggests close matches for a mistyped name, for
// friendlier not-found errors.
package similartext

import "strings"

// maxDistance is the largest edit distance still considered a plausible
// typo for short names; longer names allow up to half their length.
const maxDistance = 3

// Find returns a ", maybe you mean X?" suffix listing the known names
// closest to src, or an empty string when nothing is close enough. Ties are
// reported in input order.
func Find(names []string, src string) string {
	if src == "" || len(names) == 0 {
		return ""
	}

	minDist := -1
	var matches []string
	for _, name := range names {
		d := distance(name, src)
		switch {
		case minDist == -1 || d < minDist:
			minDist = d
			matches = matches[:0]
			matches = append(matches, name)
		case d == minDist:
			matches = append(matches, name)
		}
	}

	allowed := len(src) / 2
	if allowed < maxDistance {
		allowed = maxDistance
	}
	if minDist > allowed {
		return ""
	}

	var list string
	if len(matches) == 1 {
		list = matches[0]
	} else {
		list = strings.Join(matches[:len(matches)-1], ", ") + " or " + matches[len(matches)-1]
	}
	return ", maybe you mean " + list + "?"
}

// distance is the Levenshtein edit distance between a and b.
func distance(a, b string) int {
	if a == b {
		return 0
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
