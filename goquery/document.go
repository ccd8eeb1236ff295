// Package goquery implements the document query adapter and page inspection
// on top of goquery and cascadia.
package goquery

import (
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/fwojciec/harvest"
	"golang.org/x/net/html"
)

var (
	_ harvest.Parser = (*Parser)(nil)
	_ harvest.Node   = (*Node)(nil)
)

// Parser parses HTML into goquery-backed nodes.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse parses raw HTML. The returned node is the document root.
func (p *Parser) Parse(rawHTML string) (harvest.Node, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, harvest.Errorf(harvest.EINVALID, "failed to parse HTML: %v", err)
	}
	return NewNode(doc.Selection), nil
}

// Node adapts a goquery selection to harvest.Node. Nodes derived from the
// same root share a cache of compiled selectors.
type Node struct {
	sel   *goquery.Selection
	cache *selectorCache
}

// NewNode wraps sel.
func NewNode(sel *goquery.Selection) *Node {
	return &Node{sel: sel, cache: &selectorCache{compiled: make(map[string]cascadia.Selector)}}
}

// Find returns descendants matching selector. Unlike goquery's Find, an
// invalid selector is reported instead of silently matching nothing.
func (n *Node) Find(selector string) ([]harvest.Node, error) {
	m, err := n.cache.compile(selector)
	if err != nil {
		return nil, err
	}
	found := n.sel.FindMatcher(m)
	nodes := make([]harvest.Node, 0, found.Length())
	found.Each(func(_ int, s *goquery.Selection) {
		nodes = append(nodes, &Node{sel: s, cache: n.cache})
	})
	return nodes, nil
}

// Text returns the combined text of the node and its descendants.
func (n *Node) Text() string {
	return n.sel.Text()
}

// OwnText returns the direct text children of the node.
func (n *Node) OwnText() []string {
	var texts []string
	for _, node := range n.sel.Nodes {
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				texts = append(texts, c.Data)
			}
		}
	}
	return texts
}

// Attr returns the value of the named attribute.
func (n *Node) Attr(name string) (string, bool) {
	return n.sel.Attr(name)
}

type selectorCache struct {
	mu       sync.Mutex
	compiled map[string]cascadia.Selector
}

func (c *selectorCache) compile(selector string) (cascadia.Selector, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if m, ok := c.compiled[selector]; ok {
		return m, nil
	}
	m, err := cascadia.Compile(selector)
	if err != nil {
		return nil, harvest.Errorf(harvest.EINVALID, "invalid selector %q: %v", selector, err)
	}
	c.compiled[selector] = m
	return m, nil
}
