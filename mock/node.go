package mock

import "github.com/fwojciec/harvest"

var _ harvest.Node = (*Node)(nil)

// Node is a mock implementation of harvest.Node.
type Node struct {
	FindFn    func(selector string) ([]harvest.Node, error)
	TextFn    func() string
	OwnTextFn func() []string
	AttrFn    func(name string) (string, bool)
}

func (n *Node) Find(selector string) ([]harvest.Node, error) {
	return n.FindFn(selector)
}

func (n *Node) Text() string {
	return n.TextFn()
}

func (n *Node) OwnText() []string {
	return n.OwnTextFn()
}

func (n *Node) Attr(name string) (string, bool) {
	return n.AttrFn(name)
}

var _ harvest.Parser = (*Parser)(nil)

// Parser is a mock implementation of harvest.Parser.
type Parser struct {
	ParseFn func(html string) (harvest.Node, error)
}

func (p *Parser) Parse(html string) (harvest.Node, error) {
	return p.ParseFn(html)
}
