package apiclient

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Decoder converts a JSON document into v. json.Unmarshal is the default.
type Decoder func(data []byte, v any) error

var errInvalidJSON = errors.New("response body is not valid JSON")


// decodeJSON applies the optional extraction path and decodes the selected node into T.
// An empty body or a path that selects nothing yields the zero value.
func decodeJSON[T any](body []byte, path string, decode Decoder) (T, error) {
	var out T

	doc := bytes.TrimSpace(body)
	if len(doc) == 0 {
		return out, nil
	}
	if !gjson.ValidBytes(doc) {
		return out, errInvalidJSON
	}

	if p := normalizePath(path); p != "" {
		node := gjson.GetBytes(doc, p)
		if !node.Exists() {
			return out, nil
		}
		doc = []byte(node.Raw)
	}

	if decode == nil {
		decode = json.Unmarshal
	}
	if err := decode(doc, &out); err != nil {
		return out, fmt.Errorf("decode response: %w", err)
	}
	return out, nil
}

// normalizePath converts the "$.a[0]['b.c']" form into a gjson path.
// Plain dotted segments pass through unchanged; bracketed names are escaped
// so dots and wildcards inside them match literally.
func normalizePath(path string) string {
	p := strings.TrimPrefix(strings.TrimSpace(path), "$")

	var b strings.Builder
	for p != "" {
		switch {
		case p[0] == '.':
			p = p[1:]
		case p[0] == '[':
			end := closingBracket(p)
			seg := strings.TrimSpace(p[1:end])
			if end < len(p) {
				end++
			}
			p = p[end:]
			if n := len(seg); n >= 2 && (seg[0] == '\'' || seg[0] == '"') && seg[n-1] == seg[0] {
				seg = escapePathKey(seg[1 : n-1])
			}
			appendSegment(&b, seg)
		default:
			end := strings.IndexAny(p, ".[")
			if end < 0 {
				end = len(p)
			}
			appendSegment(&b, p[:end])
			p = p[end:]
		}
	}
	return b.String()
}

// closingBracket returns the index of the "]" ending the segment opened at p[0],
// skipping brackets inside a quoted name. It returns len(p) when unterminated.
func closingBracket(p string) int {
	var quote byte
	for i := 1; i < len(p); i++ {
		switch c := p[i]; {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == ']':
			return i
		}
	}
	return len(p)
}

func appendSegment(b *strings.Builder, seg string) {
	if seg == "" {
		return
	}
	if b.Len() > 0 {
		b.WriteByte('.')
	}
	b.WriteString(seg)
}

func escapePathKey(key string) string {
	var b strings.Builder
	for i := 0; i < len(key); i++ {
		switch key[i] {
		case '.', '*', '?', '|', '#', '@', '\\', '!', '=', '<', '>', '%':
			b.WriteByte('\\')
		}
		b.WriteByte(key[i])
	}
	return b.String()
}
