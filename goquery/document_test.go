package goquery_test

import (
	"testing"

	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, html string) harvest.Node {
	t.Helper()
	doc, err := goquery.NewParser().Parse(html)
	require.NoError(t, err)
	return doc
}

func TestNode_Find(t *testing.T) {
	t.Parallel()

	t.Run("returns matches in document order", func(t *testing.T) {
		t.Parallel()

		doc := parse(t, `<ul><li class="list">One</li><li>Skip</li><li class="list">Two</li></ul>`)

		nodes, err := doc.Find("li.list")
		require.NoError(t, err)
		require.Len(t, nodes, 2)
		assert.Equal(t, "One", nodes[0].Text())
		assert.Equal(t, "Two", nodes[1].Text())
	})

	t.Run("scopes search to the node", func(t *testing.T) {
		t.Parallel()

		doc := parse(t, `<div id="a"><span>in a</span></div><div id="b"><span>in b</span></div>`)

		blocks, err := doc.Find("#b")
		require.NoError(t, err)
		require.Len(t, blocks, 1)

		spans, err := blocks[0].Find("span")
		require.NoError(t, err)
		require.Len(t, spans, 1)
		assert.Equal(t, "in b", spans[0].Text())
	})

	t.Run("no match is empty not error", func(t *testing.T) {
		t.Parallel()

		nodes, err := parse(t, `<p>text</p>`).Find("table")
		require.NoError(t, err)
		assert.Empty(t, nodes)
	})

	t.Run("invalid selector is an error", func(t *testing.T) {
		t.Parallel()

		_, err := parse(t, `<p>text</p>`).Find("p[")
		require.Error(t, err)
		assert.Equal(t, harvest.EINVALID, harvest.ErrorCode(err))
	})

	t.Run("supports labelled block selectors", func(t *testing.T) {
		t.Parallel()

		doc := parse(t, `<div class="flex flex-wrap">
			<div class="w-50"><div class="f7">Location</div><div class="f5 tiempos-text">Denver, CO</div></div>
			<div class="w-50"><div class="f7">Loan Status</div><div class="f5 tiempos-text">Paid in Full</div></div>
		</div>`)

		nodes, err := doc.Find(`div.flex.flex-wrap div[class*="w-"]:haschild(div.f7:containsOwn("Loan Status")) > div.f5.tiempos-text`)
		require.NoError(t, err)
		require.Len(t, nodes, 1)
		assert.Equal(t, "Paid in Full", nodes[0].Text())
	})
}

func TestNode_OwnText(t *testing.T) {
	t.Parallel()

	doc := parse(t, `<div class="c">Austin, TX<span>nested</span> trailing</div>`)

	nodes, err := doc.Find("div.c")
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, []string{"Austin, TX", " trailing"}, nodes[0].OwnText())
	assert.Equal(t, "Austin, TXnested trailing", nodes[0].Text())
}

func TestNode_Attr(t *testing.T) {
	t.Parallel()

	doc := parse(t, `<a href="/loans/1">Acme</a>`)

	links, err := doc.Find("a")
	require.NoError(t, err)
	require.Len(t, links, 1)

	href, ok := links[0].Attr("href")
	assert.True(t, ok)
	assert.Equal(t, "/loans/1", href)

	_, ok = links[0].Attr("title")
	assert.False(t, ok)
}
