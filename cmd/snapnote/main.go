// Package main provides the snapnote CLI.
//
// snapnote turns a photographed note into a Notion page: OCR, then an LLM
// summary, then a page in a Notion database.
//
// Usage:
//
//	snapnote serve
//	snapnote process <image>
//	snapnote notion-check
//
// See --help for all available options.
package main

func main() {
	Execute()
}
