package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// Default titles used when a summary or page request carries none.
const (
	DefaultProcessTitle = "OCR Note"
	DefaultPageTitle    = "Untitled"
)

// SummaryKind distinguishes the two shapes a summarizer reply can take.
type SummaryKind int

const (
	// SummaryPlain is free-form text.
	SummaryPlain SummaryKind = iota
	// SummaryStructured is a JSON object, expected to carry title, summary and tags.
	SummaryStructured
)

func (k SummaryKind) String() string {
	if k == SummaryStructured {
		return "structured"
	}
	return "plain"
}

// Summary is the summarizer output: PlainSummary(text) | StructuredSummary{object}.
// The structured form keeps the object exactly as the model produced it.
type Summary struct {
	kind SummaryKind
	text string
	raw  json.RawMessage
}

// SummaryRecord is a structured summary after default substitution.
type SummaryRecord struct {
	Title   string
	Summary string
	Tags    []string
}

// PlainSummary creates a plain text summary.
func PlainSummary(text string) Summary {
	return Summary{kind: SummaryPlain, text: text}
}

// StructuredSummary creates a structured summary from a JSON object.
func StructuredSummary(raw json.RawMessage) (Summary, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' || !json.Valid(trimmed) {
		return Summary{}, errors.New("structured summary must be a JSON object")
	}
	return Summary{kind: SummaryStructured, raw: append(json.RawMessage(nil), trimmed...)}, nil
}

// ParseSummary classifies a model reply. Markdown code fences around the
// reply are ignored; a JSON object becomes structured, anything else plain.
func ParseSummary(reply string) Summary {
	body := stripCodeFence(reply)
	if s, err := StructuredSummary(json.RawMessage(body)); err == nil {
		return s
	}
	return PlainSummary(strings.TrimSpace(reply))
}

// Kind reports which variant the summary holds.
func (s Summary) Kind() SummaryKind { return s.kind }

// Text returns the plain text, empty for structured summaries.
func (s Summary) Text() string { return s.text }

// Raw returns the JSON object of a structured summary, nil for plain ones.
func (s Summary) Raw() json.RawMessage { return s.raw }

// MarshalJSON encodes the summary verbatim: a JSON string or the original object.
func (s Summary) MarshalJSON() ([]byte, error) {
	if s.kind == SummaryStructured {
		return s.raw, nil
	}
	return json.Marshal(s.text)
}

// Record applies default substitution. A title is replaced by defaultTitle
// only when the key is absent or null; summary defaults to "" and tags to an
// empty list. A plain summary becomes a record whose body is the plain text.
func (s Summary) Record(defaultTitle string) SummaryRecord {
	rec := SummaryRecord{Title: defaultTitle, Tags: []string{}}
	if s.kind == SummaryPlain {
		rec.Summary = s.text
		return rec
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(s.raw, &fields); err != nil {
		return rec
	}
	if v, ok := scalarText(fields["title"]); ok {
		rec.Title = v
	}
	if v, ok := scalarText(fields["summary"]); ok {
		rec.Summary = v
	}
	rec.Tags = tagList(fields["tags"])
	return rec
}

// scalarText renders a JSON value as text. Strings are unquoted, other
// values keep their compact JSON form. Absent and null values report false.
func scalarText(v json.RawMessage) (string, bool) {
	v = bytes.TrimSpace(v)
	if len(v) == 0 || bytes.Equal(v, []byte("null")) {
		return "", false
	}
	var str string
	if err := json.Unmarshal(v, &str); err == nil {
		return str, true
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, v); err != nil {
		return string(v), true
	}
	return buf.String(), true
}

func tagList(v json.RawMessage) []string {
	tags := []string{}
	v = bytes.TrimSpace(v)
	if len(v) == 0 {
		return tags
	}

	var items []json.RawMessage
	if err := json.Unmarshal(v, &items); err != nil {
		// A single scalar is a one-element list.
		if t, ok := scalarText(v); ok && t != "" {
			tags = append(tags, t)
		}
		return tags
	}
	for _, item := range items {
		if t, ok := scalarText(item); ok {
			tags = append(tags, t)
		}
	}
	return tags
}

func stripCodeFence(reply string) string {
	body := strings.TrimSpace(reply)
	if !strings.HasPrefix(body, "```") {
		return body
	}
	// drop the opening fence line, e.g. ```json
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		body = body[nl+1:]
	} else {
		return body
	}
	body = strings.TrimSpace(body)
	body = strings.TrimSuffix(body, "```")
	return strings.TrimSpace(body)
}
