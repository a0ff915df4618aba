package archive

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listingEntry(href, title string) string {
	return fmt.Sprintf(`<div><article><div><div>
		<div><header><h1><a href="%s">%s</a></h1></header></div>
		<div><p>excerpt</p></div>
	</div></div></article></div>`, href, title)
}

func container(entries ...string) string {
	return "<div class=\"posts\">" + strings.Join(entries, "\n") + "</div>"
}

func TestExtractItems(t *testing.T) {
	html := container(
		listingEntry("https://links.example.blog/archives/101", "  First   Movie (2026)  "),
		listingEntry("/archives/102", "Second Movie"),
		`<div><p>advert</p></div>`,
		listingEntry("", "No Link"),
	)

	items, err := ExtractItems(html, "https://links.example.blog/archives/date/2026/01/page/2")
	require.NoError(t, err)
	require.Len(t, items, 4)

	assert.Equal(t, 1, items[0].Index)
	require.NoError(t, items[0].Err)
	assert.Equal(t, "First Movie (2026)", items[0].Movie.Title)
	assert.Equal(t, "https://links.example.blog/archives/101", items[0].Movie.Link)

	require.NoError(t, items[1].Err)
	assert.Equal(t, "https://links.example.blog/archives/102", items[1].Movie.Link)

	assert.ErrorIs(t, items[2].Err, ErrAnchorNotFound)
	assert.ErrorIs(t, items[3].Err, ErrMissingHref)
}

func TestExtractItemsOnlyFirstInnerDiv(t *testing.T) {
	// The second inner div also carries a header anchor but is not on the path.
	html := container(`<div><article><div><div>
		<div><header><h1><a href="/archives/1">Wanted</a></h1></header></div>
		<div><header><h1><a href="/archives/2">Sidebar</a></h1></header></div>
	</div></div></article></div>`)

	items, err := ExtractItems(html, "https://links.example.blog/")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Wanted", items[0].Movie.Title)
	assert.Equal(t, "https://links.example.blog/archives/1", items[0].Movie.Link)
}

func TestExtractItemsEmptyContainer(t *testing.T) {
	items, err := ExtractItems(container(), "https://links.example.blog/")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestExtractItemsBadPageURL(t *testing.T) {
	_, err := ExtractItems(container(), "://bad")
	assert.Error(t, err)
}

func TestExtractItemsWrappedArticle(t *testing.T) {
	html := container(`<div><div class="wrap"><section><article><div><div>
		<div><header><h1><a href="/archives/5">Wrapped Movie</a></h1></header></div>
	</div></div></article></section></div></div>`)

	items, err := ExtractItems(html, "https://links.example.blog/archives/date/2026/01")
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NoError(t, items[0].Err)
	assert.Equal(t, "Wrapped Movie", items[0].Movie.Title)
	assert.Equal(t, "https://links.example.blog/archives/5", items[0].Movie.Link)
}

func TestExtractItemsStepsAfterArticleAreChildren(t *testing.T) {
	// The header sits one level too deep below the article.
	html := container(`<div><article><div><div><span>
		<div><header><h1><a href="/archives/6">Too Deep</a></h1></header></div>
	</span></div></div></article></div>`)

	items, err := ExtractItems(html, "https://links.example.blog/")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.ErrorIs(t, items[0].Err, ErrAnchorNotFound)
}
