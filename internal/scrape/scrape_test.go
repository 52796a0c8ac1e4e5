package scrape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindLinkByClass(t *testing.T) {
	page := []byte(`<html><body>
	  <a class="other" href="/press/release.xml">wrong class</a>
	  <a class="documentlinks pull-right" href="/resources/xml/en/consolidated.xml">XML</a>
	  <a class="documentlinks" href="/resources/xml/en/consolidated_2.xml">XML later</a>
	</body></html>`)

	href, ok, err := FindLink(page, "https://main.un.org/securitycouncil/content", LinkQuery{
		Class:    "documentlinks",
		Contains: []string{"xml"},
	})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "https://main.un.org/resources/xml/en/consolidated.xml", href)
}

func TestFindLinkFiltersSubstringsAndSuffixes(t *testing.T) {
	page := []byte(`<html><body>
	  <a href="/files/SENARAI_KDN_2024.pdf.xml">metadata</a>
	  <a href="/files/OTHER_LIST.pdf">unrelated</a>
	  <a href="/files/SENARAI_KDN_2024.pdf">the list</a>
	</body></html>`)

	href, ok, err := FindLink(page, "https://www.moha.gov.my", LinkQuery{
		Contains:    []string{"SENARAI_KDN", ".pdf"},
		NotSuffixes: []string{".xml"},
	})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "https://www.moha.gov.my/files/SENARAI_KDN_2024.pdf", href)
}

func TestFindLinkNoMatch(t *testing.T) {
	page := []byte(`<html><body><a href="/something/else.html">nope</a></body></html>`)

	_, ok, err := FindLink(page, "https://example.com", LinkQuery{Contains: []string{".pdf"}})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFindLinkWithoutBaseKeepsHref(t *testing.T) {
	page := []byte(`<a href="/relative/doc.pdf">doc</a>`)

	href, ok, err := FindLink(page, "", LinkQuery{Contains: []string{".pdf"}})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "/relative/doc.pdf", href)
}

func TestFindLinkAbsoluteHrefUnchangedByBase(t *testing.T) {
	page := []byte(`<a href="https://cdn.example.com/doc.pdf">doc</a>`)

	href, ok, err := FindLink(page, "https://www.moha.gov.my", LinkQuery{Contains: []string{".pdf"}})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "https://cdn.example.com/doc.pdf", href)
}
