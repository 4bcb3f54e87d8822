//go:build unit
// +build unit

package asvx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWithPdfAndPages(t *testing.T) {
	content := "{asvx|pdf:/home/user/report.pdf}\n\n" +
		"{asvx|page|num:3}\n\nFirst page text.\n\n" +
		"{asvx|page|num:4}\n\nSecond page text.\n"

	doc, err := Parse(content)
	require.NoError(t, err)

	assert.Equal(t, "/home/user/report.pdf", doc.PDFPath)
	require.Len(t, doc.Pages, 2)
	assert.Equal(t, 3, doc.Pages[0].Num)
	assert.Equal(t, "First page text.", doc.Pages[0].Markdown)
	assert.Equal(t, 4, doc.Pages[1].Num)
	assert.Equal(t, "Second page text.", doc.Pages[1].Markdown)
}

func TestParseSequentialNumbering(t *testing.T) {
	content := "{asvx|page}\n\nalpha\n\n{asvx|page}\n\nbeta\n"

	doc, err := Parse(content)
	require.NoError(t, err)

	require.Len(t, doc.Pages, 2)
	assert.Equal(t, 1, doc.Pages[0].Num)
	assert.Equal(t, 2, doc.Pages[1].Num)
}

func TestParseMalformedNumFallsBackToCounter(t *testing.T) {
	content := "{asvx|page|num:abc}\n\nalpha\n\n{asvx|page}\n\nbeta\n"

	doc, err := Parse(content)
	require.NoError(t, err)

	require.Len(t, doc.Pages, 2)
	assert.Equal(t, 1, doc.Pages[0].Num)
	assert.Equal(t, 2, doc.Pages[1].Num)
}

func TestParseContentBeforeFirstPageTag(t *testing.T) {
	doc, err := Parse("Loose intro line.\n\n{asvx|page|num:2}\n\nbody\n")
	require.NoError(t, err)

	require.Len(t, doc.Pages, 2)
	assert.Equal(t, 1, doc.Pages[0].Num)
	assert.Equal(t, "Loose intro line.", doc.Pages[0].Markdown)
	assert.Equal(t, 2, doc.Pages[1].Num)
}

func TestParseUnknownTag(t *testing.T) {
	_, err := Parse("{asvx|bogus:1}\n")
	assert.Error(t, err)
}

func TestSerializeParseRoundTrip(t *testing.T) {
	doc := &Document{
		PDFPath: "/tmp/scan.pdf",
		Pages: []Page{
			{Num: 1, Markdown: "# Title\n\nIntro paragraph."},
			{Num: 2, Markdown: "Second page."},
			{Num: 7, Markdown: "Jumped ahead."},
		},
	}

	parsed, err := Parse(doc.Serialize())
	require.NoError(t, err)

	assert.Equal(t, doc.PDFPath, parsed.PDFPath)
	require.Len(t, parsed.Pages, 3)
	for i := range doc.Pages {
		assert.Equal(t, doc.Pages[i].Num, parsed.Pages[i].Num)
		assert.Equal(t, doc.Pages[i].Markdown, parsed.Pages[i].Markdown)
	}
}

func TestToMarkdownAndBack(t *testing.T) {
	doc := &Document{
		Pages: []Page{
			{Num: 1, Markdown: "First."},
			{Num: 2, Markdown: "Second."},
		},
	}

	md := doc.ToMarkdown()
	assert.Contains(t, md, "PAGE BREAK 2")
	assert.NotContains(t, md, "PAGE BREAK 1")

	back := FromMarkdown(md)
	require.Len(t, back.Pages, 2)
	assert.Equal(t, 1, back.Pages[0].Num)
	assert.Equal(t, "First.", back.Pages[0].Markdown)
	assert.Equal(t, 2, back.Pages[1].Num)
	assert.Equal(t, "Second.", back.Pages[1].Markdown)
}

func TestFromMarkdownWithoutMarkers(t *testing.T) {
	doc := FromMarkdown("Just a note.\n")
	require.Len(t, doc.Pages, 1)
	assert.Equal(t, 1, doc.Pages[0].Num)
	assert.Equal(t, "Just a note.", doc.Pages[0].Markdown)
}

func TestPlainText(t *testing.T) {
	doc := &Document{Pages: []Page{{Num: 1, Markdown: "a"}, {Num: 2, Markdown: "b"}}}
	assert.Equal(t, "a\n\nb", doc.PlainText())
}

func TestIsASVXFile(t *testing.T) {
	assert.True(t, IsASVXFile("doc.asvx"))
	assert.True(t, IsASVXFile("DOC.ASVX"))
	assert.False(t, IsASVXFile("doc.md"))
	assert.False(t, IsASVXFile(""))
}
