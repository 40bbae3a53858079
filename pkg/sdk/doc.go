// Package snapnote runs the image-to-note pipeline in-process: text
// extraction, summarization and page creation in a Notion database.
//
// Adapters are supplied as options. The OpenAI-compatible and Notion
// adapters shipped with the service are available as shortcuts:
//
//	client, _ := snapnote.New(
//	    snapnote.WithOpenAI(os.Getenv("GEMINI_API_KEY"), snapnote.GeminiBaseURL, "gemini-2.0-flash"),
//	    snapnote.WithNotion(os.Getenv("NOTION_API_KEY"), os.Getenv("NOTION_DB_ID")),
//	)
//	res, err := client.Process(ctx, image)
//	fmt.Println(res.Summary.Title, res.Page.URL())
//
// Custom adapters implement TextExtractor, Summarizer or PageStore:
//
//	client, _ := snapnote.New(
//	    snapnote.WithTextExtractor(myOCR),
//	    snapnote.WithSummarizer(mySummarizer),
//	    snapnote.WithPageStore(myStore),
//	)
package snapnote
