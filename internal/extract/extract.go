// Package extract recovers a structured JSON object embedded in an otherwise
// free-form LLM response. Extraction is pure and never fails: when nothing
// parseable is found the whole input is returned as markdown with a nil
// payload, which is an expected outcome for prose-only responses.
package extract

import (
	"encoding/json"
	"regexp"
	"strings"

	"plugin2mcp/internal/logging"
)

// fenceRe matches a ```json code fence and captures its contents.
var fenceRe = regexp.MustCompile("(?s)```json\\s*\\n(.*?)\\n```")

// markers are the textual separators tried, in order, when no usable fence is
// present. The "---\n\n{" entry covers a common bare separator before JSON.
var markers = []string{
	"## Structured Data",
	"## JSON Output",
	"## Structured JSON",
	"## JSON",
	"---\n\n{",
}

// Parse splits an LLM response into markdown and an optional structured JSON
// object.
//
// Three strategies are tried in order, first success wins:
//  1. a ```json code fence (a fence whose contents fail to parse falls
//     through rather than aborting)
//  2. a known marker followed by a depth-matched { ... } block
//  3. a trailing JSON object found by scanning backward from the last '}'
//
// The structured payload must be a JSON object; arrays and scalars are not
// accepted at any tier.
func Parse(response string) (markdown string, structured map[string]interface{}) {
	log := logging.Get(logging.CategoryExtract)

	// Strategy 1: JSON block in a code fence
	if loc := fenceRe.FindStringSubmatchIndex(response); loc != nil {
		jsonStr := response[loc[2]:loc[3]]
		if obj, ok := parseObject(jsonStr); ok {
			log.Debug("parsed JSON from code fence")
			return strings.TrimSpace(response[:loc[0]]), obj
		}
		log.Debug("code fence present but contents not valid JSON, trying markers")
	}

	// Strategy 2: JSON after a known marker
	for _, marker := range markers {
		idx := strings.Index(response, marker)
		if idx < 0 {
			continue
		}
		md := strings.TrimSpace(response[:idx])
		rest := response[idx+len(marker):]

		braceStart := strings.Index(rest, "{")
		if braceStart < 0 {
			continue
		}
		jsonStr, ok := matchForward(rest[braceStart:])
		if !ok {
			continue
		}
		if obj, parsed := parseObject(jsonStr); parsed {
			log.Debug("parsed JSON after marker %q", marker)
			return md, obj
		}
	}

	// Strategy 3: trailing JSON object with no marker at all
	lastBrace := strings.LastIndex(response, "}")
	if lastBrace > 0 {
		if start, ok := matchBackward(response, lastBrace); ok {
			if obj, parsed := parseObject(response[start : lastBrace+1]); parsed {
				log.Debug("parsed JSON from end of response")
				return strings.TrimSpace(response[:start]), obj
			}
		}
	}

	// No structured data found; the entire response is markdown.
	log.Debug("no structured JSON found in response")
	return response, nil
}

// parseObject unmarshals s iff it is a JSON object.
func parseObject(s string) (map[string]interface{}, bool) {
	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(s), &obj); err != nil {
		return nil, false
	}
	if obj == nil {
		return nil, false // "null" decodes without error
	}
	return obj, true
}

// matchForward returns the substring from s[0] (which must be '{') to its
// depth-matched closing brace.
func matchForward(s string) (string, bool) {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[:i+1], true
			}
		}
	}
	return "", false
}

// matchBackward walks backward from the '}' at position end and returns the
// index of its depth-matched opening brace.
func matchBackward(s string, end int) (int, bool) {
	depth := 0
	for i := end; i >= 0; i-- {
		switch s[i] {
		case '}':
			depth++
		case '{':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}
