package chi

import (
	"github.com/kailas-cloud/snapnote/internal/domain"
)

// Error codes returned in errorResponse.Code.
const (
	codeBadRequest      = "bad_request"
	codePayloadTooLarge = "payload_too_large"
	codeUpstreamError   = "upstream_error"
	codeInternalError   = "internal_error"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ocrResponse struct {
	OCRText string `json:"ocr_text"`
}

type summarizeRequest struct {
	Text string `json:"text"`
}

type summarizeResponse struct {
	Summary domain.Summary `json:"summary"`
}

// notionRequest fields are pointers so absent and null fall back to defaults.
type notionRequest struct {
	Title   *string  `json:"title"`
	Summary *string  `json:"summary"`
	Tags    []string `json:"tags"`
}

func (r notionRequest) draft() domain.PageDraft {
	d := domain.PageDraft{Title: domain.DefaultPageTitle, Tags: r.Tags}
	if r.Title != nil {
		d.Title = *r.Title
	}
	if r.Summary != nil {
		d.Summary = *r.Summary
	}
	return d
}

type notionResponse struct {
	NotionPage domain.PageDescriptor `json:"notion_page"`
}

type summaryRecordResponse struct {
	Title   string   `json:"title"`
	Summary string   `json:"summary"`
	Tags    []string `json:"tags"`
}

type processResponse struct {
	OCRText    string                `json:"ocr_text"`
	Summary    summaryRecordResponse `json:"summary"`
	NotionPage domain.PageDescriptor `json:"notion_page"`
}

func processToResponse(res domain.ProcessResult) processResponse {
	tags := res.Summary.Tags
	if tags == nil {
		tags = []string{}
	}
	return processResponse{
		OCRText: res.OCRText,
		Summary: summaryRecordResponse{
			Title:   res.Summary.Title,
			Summary: res.Summary.Summary,
			Tags:    tags,
		},
		NotionPage: res.Page,
	}
}

type schemaResponse struct {
	Properties []string `json:"properties"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
