package snapnote

import "github.com/kailas-cloud/snapnote/internal/domain"

// Pipeline values shared with the service.
type (
	// Summary is a summarizer reply: plain text or a structured JSON object.
	Summary = domain.Summary
	// SummaryRecord is a summary with title and tags filled in.
	SummaryRecord = domain.SummaryRecord
	// PageDraft is the input of CreatePage.
	PageDraft = domain.PageDraft
	// PageDescriptor is the page store reply, kept verbatim.
	PageDescriptor = domain.PageDescriptor
	// ProcessResult is the outcome of a full pipeline run.
	ProcessResult = domain.ProcessResult
)

// Adapter contracts.
type (
	// TextExtractor turns image bytes into text.
	TextExtractor = domain.TextExtractor
	// Summarizer condenses text.
	Summarizer = domain.Summarizer
	// PageStore creates pages in a database.
	PageStore = domain.PageStore
)

// DefaultProcessTitle is the title Process uses when the summary has none.
const DefaultProcessTitle = domain.DefaultProcessTitle

// Constructors for adapter implementations.
var (
	PlainSummary      = domain.PlainSummary
	ParseSummary      = domain.ParseSummary
	NewPageDescriptor = domain.NewPageDescriptor
	JoinTags          = domain.JoinTags
)
