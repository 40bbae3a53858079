package domain

import (
	"bytes"
	"encoding/json"
	"strings"
)

// TagSeparator joins a tag list into the single text field stored on a page.
const TagSeparator = ", "

// JoinTags flattens a tag list. An empty list yields "".
func JoinTags(tags []string) string {
	return strings.Join(tags, TagSeparator)
}

// PageDraft is the input of a page creation before tag flattening.
type PageDraft struct {
	Title   string
	Summary string
	Tags    []string
}

// DraftFromRecord converts a summary record into a page draft.
func DraftFromRecord(rec SummaryRecord) PageDraft {
	return PageDraft{Title: rec.Title, Summary: rec.Summary, Tags: rec.Tags}
}

// PageDescriptor is the page store's reply to a page creation. Its content is
// passed back to callers untouched.
type PageDescriptor struct {
	raw json.RawMessage
}

// NewPageDescriptor wraps a raw page store reply.
func NewPageDescriptor(raw []byte) PageDescriptor {
	return PageDescriptor{raw: append(json.RawMessage(nil), bytes.TrimSpace(raw)...)}
}

// Raw returns the reply bytes.
func (p PageDescriptor) Raw() json.RawMessage { return p.raw }

// ID returns the "id" field when the reply is an object that carries one.
func (p PageDescriptor) ID() string { return p.stringField("id") }

// URL returns the "url" field when the reply is an object that carries one.
func (p PageDescriptor) URL() string { return p.stringField("url") }

// MarshalJSON emits the reply verbatim, or null when there is none.
func (p PageDescriptor) MarshalJSON() ([]byte, error) {
	if len(p.raw) == 0 {
		return []byte("null"), nil
	}
	return p.raw, nil
}

// UnmarshalJSON keeps any JSON value as the descriptor.
func (p *PageDescriptor) UnmarshalJSON(data []byte) error {
	*p = NewPageDescriptor(data)
	return nil
}

func (p PageDescriptor) stringField(name string) string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(p.raw, &fields); err != nil {
		return ""
	}
	var v string
	_ = json.Unmarshal(fields[name], &v)
	return v
}

// ProcessResult is the composite outcome of one pipeline run.
type ProcessResult struct {
	OCRText string
	Summary SummaryRecord
	Page    PageDescriptor
}
