package blog

import "strings"

// highlight tint used when a section is highlighted without an explicit
// background color of its own
const defaultHighlightColor = "#fff3c4"

// RenderedStyle is the computed presentation of a rendered section, with the
// quote/highlight layers already folded in.
type RenderedStyle struct {
	FontSize        int    `json:"fontSize,omitempty"`
	FontWeight      int    `json:"fontWeight,omitempty"`
	FontColor       string `json:"fontColor,omitempty"`
	FontFamily      string `json:"fontFamily,omitempty"`
	FontStyle       string `json:"fontStyle,omitempty"`
	TextAlign       string `json:"textAlign,omitempty"`
	TextDecoration  string `json:"textDecoration,omitempty"`
	TextTransform   string `json:"textTransform,omitempty"`
	BackgroundColor string `json:"backgroundColor,omitempty"`
	LeftBorder      bool   `json:"leftBorder,omitempty"`
}

// RenderedSection is the presentational node a section maps to.
type RenderedSection struct {
	Element string        `json:"element"` // h2, h3, p, blockquote, ul, img, div
	Text    string        `json:"text,omitempty"`
	Items   []string      `json:"items,omitempty"` // list sections only
	Src     string        `json:"src,omitempty"`   // image sections only
	Style   RenderedStyle `json:"style"`
}

// RenderSection deterministically maps a section to its presentational node.
// It is a pure function - rendering the same section twice yields the same node.
func RenderSection(s Section) RenderedSection {
	switch s.Type {
	case SectionHeading:
		element := "h3"
		if s.FontSize >= headingFontSize {
			element = "h2"
		}
		return RenderedSection{
			Element: element,
			Text:    s.Content,
			Style:   renderStyle(s),
		}

	case SectionParagraph:
		element := "p"
		if s.IsQuote {
			element = "blockquote"
		}
		return RenderedSection{
			Element: element,
			Text:    s.Content,
			Style:   renderStyle(s),
		}

	case SectionQuote:
		s.IsQuote = true
		return RenderedSection{
			Element: "blockquote",
			Text:    s.Content,
			Style:   renderStyle(s),
		}

	case SectionList:
		return RenderedSection{
			Element: "ul",
			Items:   splitListItems(s.Content),
			Style:   renderStyle(s),
		}

	case SectionImage:
		// an image carries no text styling
		return RenderedSection{
			Element: "img",
			Src:     s.Content,
		}

	default:
		// unknown/unsupported section types fall back to a generic styled block
		return RenderedSection{
			Element: "div",
			Text:    s.Content,
			Style:   renderStyle(s),
		}
	}
}

// RenderBlog renders all sections in stored order. Order is never changed
// here - the editor's reorder operations are the sole source of display order.
func RenderBlog(b *Blog) []RenderedSection {
	rendered := make([]RenderedSection, 0, len(b.Sections))
	for _, s := range b.Sections {
		rendered = append(rendered, RenderSection(s))
	}
	return rendered
}

func renderStyle(s Section) RenderedStyle {
	style := RenderedStyle{
		FontSize:        s.FontSize,
		FontWeight:      s.FontWeight,
		FontColor:       s.FontColor,
		FontFamily:      s.FontFamily,
		FontStyle:       s.FontStyle,
		TextAlign:       s.TextAlign,
		TextDecoration:  s.TextDecoration,
		TextTransform:   s.TextTransform,
		BackgroundColor: s.BackgroundColor,
	}

	// the quote and highlight layers apply regardless of section type
	if s.IsQuote {
		style.LeftBorder = true
		style.FontStyle = "italic"
	}
	if s.IsHighlight && style.BackgroundColor == "" {
		style.BackgroundColor = defaultHighlightColor
	}

	return style
}

// splitListItems splits newline-delimited list content into one item per
// non-empty line, preserving order.
func splitListItems(content string) []string {
	var items []string
	for _, line := range strings.Split(content, "\n") {
		if line == "" {
			continue
		}
		items = append(items, line)
	}
	return items
}
