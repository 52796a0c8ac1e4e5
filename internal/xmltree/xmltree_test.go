package xmltree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBuildsTree(t *testing.T) {
	doc := []byte(`<?xml version="1.0" encoding="UTF-8"?>
<ROOT xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"
      xsi:noNamespaceSchemaLocation="https://example.org/list.xsd"
      dateGenerated="2025-01-02T03:04:05">
  <ITEM id="7">
    <NAME>  Abu Bakar  </NAME>
    <NOTE/>
  </ITEM>
  <ITEM id="8"><NAME>Second</NAME></ITEM>
</ROOT>`)

	root, err := Parse(doc)
	require.NoError(t, err)

	assert.Equal(t, "ROOT", root.Name)
	assert.Equal(t, "http://www.w3.org/2001/XMLSchema-instance", root.AttrValue("xmlns:xsi"))
	assert.Equal(t, "https://example.org/list.xsd", root.AttrValue("xsi:noNamespaceSchemaLocation"))
	assert.Equal(t, "2025-01-02T03:04:05", root.AttrValue("dateGenerated"))
	assert.Equal(t, "", root.AttrValue("missing"))

	items := root.All("ITEM")
	require.Len(t, items, 2)
	assert.Equal(t, "7", items[0].AttrValue("id"))
	assert.Equal(t, "Abu Bakar", items[0].ChildText("NAME"))
	assert.Equal(t, "", items[0].ChildText("NOTE"))
	assert.Equal(t, "Second", items[1].ChildText("NAME"))

	assert.Same(t, items[0], root.First("ITEM"))
	assert.Nil(t, root.First("ABSENT"))
	assert.Equal(t, "", root.ChildText("ABSENT"))
}

func TestParseRejectsMalformedInput(t *testing.T) {
	cases := map[string]string{
		"truncated":      `<ROOT><ITEM>`,
		"mismatched tag": `<ROOT><A></B></ROOT>`,
		"empty":          ``,
		"no element":     `   `,
		"two roots":      `<A></A><B></B>`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestValuesNormalizesCardinality(t *testing.T) {
	doc := []byte(`<R>
  <WRAPPED><VALUE>a</VALUE><VALUE>b</VALUE></WRAPPED>
  <SINGLE><VALUE>only</VALUE></SINGLE>
  <PLAIN>text</PLAIN>
  <REPEATED>one</REPEATED>
  <REPEATED>two</REPEATED>
  <EMPTY></EMPTY>
  <BLANKVALUE><VALUE/></BLANKVALUE>
</R>`)
	root, err := Parse(doc)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, root.Values("WRAPPED"))
	assert.Equal(t, []string{"only"}, root.Values("SINGLE"))
	assert.Equal(t, []string{"text"}, root.Values("PLAIN"))
	assert.Equal(t, []string{"one", "two"}, root.Values("REPEATED"))
	assert.Equal(t, []string{}, root.Values("EMPTY"))
	assert.Equal(t, []string{}, root.Values("BLANKVALUE"))
	assert.Equal(t, []string{}, root.Values("ABSENT"))
	assert.NotNil(t, root.Values("ABSENT"))
}

func TestNilNodeAccessorsAreSafe(t *testing.T) {
	var n *Node
	assert.Nil(t, n.First("X"))
	assert.Empty(t, n.All("X"))
	assert.Equal(t, "", n.AttrValue("X"))
}
