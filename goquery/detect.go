package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// wordPressMarkers are asset paths and endpoints present on WordPress sites.
var wordPressMarkers = []string{
	"wp-content",
	"wp-includes",
	"wp-json",
	"/wp-admin",
}

// Detector identifies the CMS that generated a page.
type Detector struct{}

// NewDetector creates a new Detector.
func NewDetector() *Detector {
	return &Detector{}
}

// IsWordPress reports whether the page was generated by WordPress.
// The meta generator tag is checked first, then asset path markers.
func (d *Detector) IsWordPress(doc *goquery.Document, rawHTML string) bool {
	generator, _ := doc.Find("meta[name='generator']").Attr("content")
	if strings.Contains(strings.ToLower(generator), "wordpress") {
		return true
	}

	body := strings.ToLower(rawHTML)
	for _, marker := range wordPressMarkers {
		if strings.Contains(body, marker) {
			return true
		}
	}
	return false
}
