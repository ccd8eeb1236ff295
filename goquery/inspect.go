package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/harvest"
)

// Ensure Inspector implements harvest.PageInspector at compile time.
var _ harvest.PageInspector = (*Inspector)(nil)

// Limits on collected links and images per page.
const (
	MaxLinks  = 100
	MaxImages = 50
)

// ContentSelectors lists, per CMS field, the selectors tried in order.
type ContentSelectors struct {
	Field     string
	Selectors []string
}

// WordPressSelectors returns the selector lists for common WordPress themes.
func WordPressSelectors() []ContentSelectors {
	return []ContentSelectors{
		{"post_title", []string{"h1.entry-title", "h1.post-title", ".entry-header h1", "article h1"}},
		{"post_content", []string{".entry-content", ".post-content", "article .content", ".single-content"}},
		{"post_meta", []string{".entry-meta", ".post-meta", ".byline"}},
		{"categories", []string{".cat-links a", ".post-categories a", ".entry-categories a"}},
		{"tags", []string{".tag-links a", ".post-tags a", ".entry-tags a"}},
		{"author", []string{".author-name", ".entry-author", ".post-author a"}},
		{"date", []string{".entry-date", ".post-date", "time.published"}},
		{"comments", []string{".comments-area", "#comments", ".comment-list"}},
	}
}

// mainContentField names the CMS field whose first match is the main content.
const mainContentField = "post_content"

// Inspector extracts a PageInfo from a single content page.
type Inspector struct {
	Selectors []ContentSelectors
	Detector  *Detector

	// Extractor, if set, supplies main content when no content selector
	// matches.
	Extractor harvest.ContentExtractor

	// Converter, if set, renders the main content as Markdown.
	Converter harvest.Converter
}

// NewInspector creates an Inspector with the WordPress selector lists.
func NewInspector() *Inspector {
	return &Inspector{
		Selectors: WordPressSelectors(),
		Detector:  NewDetector(),
	}
}

// Inspect parses rawHTML and extracts page information. Relative links and
// image sources are resolved against pageURL.
func (i *Inspector) Inspect(rawHTML, pageURL string) (*harvest.PageInfo, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, harvest.Errorf(harvest.EINVALID, "invalid page URL: %v", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, harvest.Errorf(harvest.EINVALID, "failed to parse HTML: %v", err)
	}

	info := &harvest.PageInfo{
		URL:          pageURL,
		Title:        harvest.CleanText(doc.Find("title").First().Text()),
		Headings:     texts(doc.Find("h1")),
		Description:  attr(doc.Find(`meta[name="description"]`), "content"),
		CanonicalURL: attr(doc.Find(`link[rel="canonical"]`), "href"),
		Language:     attr(doc.Find("html"), "lang"),
		Content:      make(map[string][]string, len(i.Selectors)),
		Links:        []harvest.Link{},
		Images:       []harvest.Image{},
		Meta:         make(map[string]string),
	}

	var contentHTML string
	for _, cs := range i.Selectors {
		info.Content[cs.Field] = []string{}
		for _, sel := range cs.Selectors {
			found := doc.Find(sel)
			values := texts(found)
			if len(values) == 0 {
				continue
			}
			info.Content[cs.Field] = values
			if cs.Field == mainContentField {
				info.MainText = strings.Join(values, " ")
				contentHTML, _ = found.First().Html()
			}
			break
		}
	}

	if info.MainText == "" && i.Extractor != nil {
		if res, err := i.Extractor.Extract(rawHTML); err == nil {
			info.MainText = harvest.CleanText(res.Text)
			contentHTML = res.ContentHTML
			if info.Title == "" {
				info.Title = res.Title
			}
		}
	}

	if i.Converter != nil && strings.TrimSpace(contentHTML) != "" {
		if md, err := i.Converter.Convert(contentHTML); err == nil {
			info.MainMarkdown = md
		}
	}

	if i.Detector != nil {
		info.IsWordPress = i.Detector.IsWordPress(doc, rawHTML)
	}

	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		if href = strings.TrimSpace(href); href == "" {
			return true
		}
		info.Links = append(info.Links, harvest.Link{
			URL:  resolveURL(base, href),
			Text: harvest.CleanText(s.Text()),
		})
		return len(info.Links) < MaxLinks
	})

	doc.Find("img").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		src, _ := s.Attr("src")
		if src = strings.TrimSpace(src); src == "" {
			return true
		}
		alt, _ := s.Attr("alt")
		info.Images = append(info.Images, harvest.Image{URL: resolveURL(base, src), Alt: alt})
		return len(info.Images) < MaxImages
	})

	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		name, ok := s.Attr("name")
		if !ok || name == "" {
			name, _ = s.Attr("property")
		}
		content, _ := s.Attr("content")
		if name != "" && content != "" {
			info.Meta[name] = content
		}
	})

	return info, nil
}

// texts returns the cleaned, non-empty text of each element in sel.
func texts(sel *goquery.Selection) []string {
	out := []string{}
	sel.Each(func(_ int, s *goquery.Selection) {
		if t := harvest.CleanText(s.Text()); t != "" {
			out = append(out, t)
		}
	})
	return out
}

func attr(sel *goquery.Selection, name string) string {
	v, _ := sel.First().Attr(name)
	return strings.TrimSpace(v)
}

// resolveURL resolves href against base, returning href unchanged when it
// cannot be parsed.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
