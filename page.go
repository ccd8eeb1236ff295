package harvest

// Link is an anchor found on an inspected page.
type Link struct {
	URL  string `json:"url"`
	Text string `json:"text"`
}

// Image is an image found on an inspected page.
type Image struct {
	URL string `json:"url"`
	Alt string `json:"alt"`
}

// PageInfo describes a single content page, such as a CMS article.
type PageInfo struct {
	URL          string   `json:"url"`
	StatusCode   int      `json:"status_code,omitempty"`
	Title        string   `json:"title"`
	Headings     []string `json:"h1"`
	Description  string   `json:"description"`
	CanonicalURL string   `json:"canonical_url"`
	Language     string   `json:"language"`

	// Content holds the CMS fields, each from the first matching selector.
	Content map[string][]string `json:"content"`

	MainText     string `json:"main_content_text"`
	MainMarkdown string `json:"main_content_markdown,omitempty"`
	IsWordPress  bool   `json:"is_wordpress"`

	Links  []Link            `json:"links"`
	Images []Image           `json:"images"`
	Meta   map[string]string `json:"meta_data"`
}

// PageInspector extracts a PageInfo from raw HTML.
type PageInspector interface {
	Inspect(html, pageURL string) (*PageInfo, error)
}

// ExtractResult holds main content located by a content extractor.
type ExtractResult struct {
	Title       string
	Text        string
	ContentHTML string
}

// ContentExtractor finds the main content of a page, removing boilerplate.
type ContentExtractor interface {
	Extract(html string) (*ExtractResult, error)
}

// Converter converts HTML to Markdown.
type Converter interface {
	Convert(html string) (string, error)
}
