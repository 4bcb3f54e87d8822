// Package asvx implements the ASVX native document format.
//
// ASVX combines markdown content with semantic structure tags for
// accessibility and document management. Tags occupy a full line:
//
//	{asvx|pdf:/path/to/source.pdf}   source-PDF metadata
//	{asvx|page|num:24}               page boundary with explicit number
//	{asvx|page}                      page boundary, numbered sequentially
//
// Everything between tags is plain markdown.
package asvx

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	tagPrefix = "{asvx|"
	tagSuffix = "}"
)

// Extension is the file extension for ASVX documents.
const Extension = ".asvx"

// Page is one page of a document: a page number and its markdown content.
type Page struct {
	Num      int
	Markdown string
}

// Document is a parsed ASVX document.
type Document struct {
	// PDFPath is the source PDF recorded in the document metadata, if any.
	PDFPath string
	Pages   []Page
}

// IsASVXFile reports whether path names an ASVX file by extension.
func IsASVXFile(path string) bool {
	return path != "" && strings.HasSuffix(strings.ToLower(path), Extension)
}

// Parse decodes ASVX content. Pages without a num attribute (or with a
// malformed one) are numbered sequentially, continuing from 1. Content that
// appears before any page tag becomes page 1.
func Parse(content string) (*Document, error) {
	doc := &Document{}

	var current *Page
	var buf strings.Builder
	pageCounter := 1

	flush := func() {
		text := strings.TrimRight(buf.String(), "\n")
		buf.Reset()
		if strings.TrimSpace(text) == "" {
			return
		}
		if current == nil {
			// Content before the first page tag.
			current = &Page{Num: pageCounter}
			pageCounter++
		}
		if current.Markdown != "" {
			current.Markdown += "\n"
		}
		current.Markdown += text
	}

	closePage := func() {
		flush()
		if current != nil {
			doc.Pages = append(doc.Pages, *current)
			current = nil
		}
	}

	for _, line := range strings.Split(content, "\n") {
		stripped := strings.TrimSpace(line)
		if !strings.HasPrefix(stripped, tagPrefix) || !strings.HasSuffix(stripped, tagSuffix) {
			buf.WriteString(line)
			buf.WriteString("\n")
			continue
		}

		tag := stripped[len(tagPrefix) : len(stripped)-len(tagSuffix)]
		switch {
		case strings.HasPrefix(tag, "pdf:"):
			doc.PDFPath = strings.TrimSpace(tag[len("pdf:"):])
			flush()
		case tag == "page" || strings.HasPrefix(tag, "page|"):
			closePage()
			num, explicit := parsePageNum(tag)
			if explicit {
				current = &Page{Num: num}
				// Sequential numbering continues after the last explicit number.
				pageCounter = num + 1
			} else {
				current = &Page{Num: pageCounter}
				pageCounter++
			}
		default:
			return nil, fmt.Errorf("unknown asvx tag: %q", stripped)
		}
	}
	closePage()

	return doc, nil
}

// parsePageNum extracts the num attribute from a page tag. The second return
// reports whether an explicit, well-formed number was present.
func parsePageNum(tag string) (int, bool) {
	parts := strings.Split(tag, "|")
	for _, part := range parts[1:] {
		key, value, ok := strings.Cut(part, ":")
		if !ok || strings.TrimSpace(key) != "num" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// Serialize encodes the document back to ASVX. The pdf tag, when set, comes
// first. A document with content but no pages gets a single page numbered 1.
func (d *Document) Serialize() string {
	var b strings.Builder

	if d.PDFPath != "" {
		b.WriteString(tagPrefix + "pdf:" + d.PDFPath + tagSuffix + "\n\n")
	}

	for i, page := range d.Pages {
		fmt.Fprintf(&b, "%spage|num:%d%s\n\n", tagPrefix, page.Num, tagSuffix)
		b.WriteString(page.Markdown)
		if i < len(d.Pages)-1 {
			b.WriteString("\n\n")
		} else {
			b.WriteString("\n")
		}
	}

	return b.String()
}

var pageBreakRe = regexp.MustCompile(`^PAGE BREAK (\d+)$`)

// ToMarkdown renders the document as plain markdown, with page boundaries
// rendered as "PAGE BREAK N" marker lines the way the editor displays them.
// The first page gets no marker.
func (d *Document) ToMarkdown() string {
	var b strings.Builder
	for i, page := range d.Pages {
		if i > 0 {
			fmt.Fprintf(&b, "\n\n---\n\nPAGE BREAK %d\n\n", page.Num)
		}
		b.WriteString(page.Markdown)
	}
	return b.String()
}

// FromMarkdown builds a document from markdown containing optional
// "PAGE BREAK N" markers. Content before the first marker becomes page 1.
func FromMarkdown(markdown string) *Document {
	doc := &Document{}
	if strings.TrimSpace(markdown) == "" {
		return doc
	}

	current := Page{Num: 1}
	started := false

	flushPage := func() {
		current.Markdown = strings.TrimSpace(current.Markdown)
		if current.Markdown != "" || started {
			doc.Pages = append(doc.Pages, current)
		}
	}

	for _, line := range strings.Split(markdown, "\n") {
		if m := pageBreakRe.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			flushPage()
			num, _ := strconv.Atoi(m[1])
			current = Page{Num: num}
			started = true
			continue
		}
		// Horizontal rules directly around page markers are presentation only.
		if strings.TrimSpace(line) == "---" {
			continue
		}
		current.Markdown += line + "\n"
	}
	flushPage()

	return doc
}

// PlainText returns the document's markdown content joined across pages,
// without page tags. Used as TTS input.
func (d *Document) PlainText() string {
	parts := make([]string, 0, len(d.Pages))
	for _, page := range d.Pages {
		parts = append(parts, page.Markdown)
	}
	return strings.Join(parts, "\n\n")
}
