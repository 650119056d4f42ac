package jsonutil

import (
	"encoding/json"
	"regexp"
	"strings"
)

var fencedBlock = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// StripFences extracts the inner text of a fenced code block if the
// response is wrapped in one, and trims the result to the outermost
// JSON object boundaries. Model responses frequently wrap JSON in
// markdown fences or surround it with prose.
func StripFences(response string) string {
	response = strings.TrimSpace(response)

	if m := fencedBlock.FindStringSubmatch(response); m != nil {
		response = m[1]
	}

	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start >= 0 && end > start {
		response = response[start : end+1]
	}

	return strings.TrimSpace(response)
}

// Parse unmarshals a potentially messy model response into target.
func Parse(response string, target any) error {
	return json.Unmarshal([]byte(StripFences(response)), target)
}

// ParseLoose parses a response into a generic map, returning ok=false
// when the cleaned text is not a JSON object. Unknown fields survive;
// callers pick out the keys they recognize.
func ParseLoose(response string) (map[string]any, bool) {
	var doc map[string]any
	if err := json.Unmarshal([]byte(StripFences(response)), &doc); err != nil {
		return nil, false
	}
	return doc, true
}
