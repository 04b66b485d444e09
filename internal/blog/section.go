package blog

import "errors"

var (
	ErrLastSection     = errors.New("cannot remove the last remaining section")
	ErrIndexOutOfRange = errors.New("section index out of range")
)

type SectionType string

const (
	SectionParagraph SectionType = "paragraph"
	SectionHeading   SectionType = "heading"
	SectionList      SectionType = "list"
	SectionImage     SectionType = "image"
	SectionQuote     SectionType = "quote"
)

// Section is one styled content block within a blog body. It has no identity
// of its own - it lives inside the ordered section list of its blog, and its
// position in that list is its identity. The json field names mirror the
// schema stored inside the blog document.
type Section struct {
	Type    SectionType `json:"sectionType"`
	Content string      `json:"content"` // list type: newline-delimited items; image type: URL

	FontSize        int    `json:"fontSize"`   // px
	FontWeight      int    `json:"fontWeight"` // 300 - 800
	FontColor       string `json:"fontColor"`  // hex
	FontFamily      string `json:"fontFamily"`
	FontStyle       string `json:"fontStyle"` // normal | italic
	TextAlign       string `json:"textAlign"` // left | center | right | justify
	TextDecoration  string `json:"textDecoration"`
	TextTransform   string `json:"textTransform"`
	BackgroundColor string `json:"backgroundColor,omitempty"` // the only optional style attribute

	IsQuote     bool `json:"isQuote"`
	IsHighlight bool `json:"isHighlight"`
}

const (
	defaultFontSize   = 16
	defaultFontWeight = 400
	headingFontSize   = 24
	headingFontWeight = 700
)

// NewSection returns a section with type-appropriate defaults. All style
// attributes are always set - a freshly created section is fully renderable.
func NewSection(sectionType SectionType) Section {
	s := Section{
		Type:           sectionType,
		FontSize:       defaultFontSize,
		FontWeight:     defaultFontWeight,
		FontColor:      "#111111",
		FontFamily:     "sans-serif",
		FontStyle:      "normal",
		TextAlign:      "left",
		TextDecoration: "none",
		TextTransform:  "none",
	}

	switch sectionType {
	case SectionHeading:
		s.FontSize = headingFontSize
		s.FontWeight = headingFontWeight
	case SectionQuote:
		s.IsQuote = true
	}

	return s
}

// NormalizeSections fills missing style attributes of submitted sections with
// their type defaults, so no section is ever stored with partial style state.
func NormalizeSections(sections []Section) []Section {
	out := make([]Section, 0, len(sections))
	for _, s := range sections {
		defaults := NewSection(s.Type)
		if s.FontSize == 0 {
			s.FontSize = defaults.FontSize
		}
		if s.FontWeight == 0 {
			s.FontWeight = defaults.FontWeight
		}
		if s.FontColor == "" {
			s.FontColor = defaults.FontColor
		}
		if s.FontFamily == "" {
			s.FontFamily = defaults.FontFamily
		}
		if s.FontStyle == "" {
			s.FontStyle = defaults.FontStyle
		}
		if s.TextAlign == "" {
			s.TextAlign = defaults.TextAlign
		}
		if s.TextDecoration == "" {
			s.TextDecoration = defaults.TextDecoration
		}
		if s.TextTransform == "" {
			s.TextTransform = defaults.TextTransform
		}
		out = append(out, s)
	}
	return out
}

// StylePatch carries the style fields of a single editor restyle action.
// Nil fields are left untouched on apply.
type StylePatch struct {
	FontSize        *int    `json:"fontSize,omitempty"`
	FontWeight      *int    `json:"fontWeight,omitempty"`
	FontColor       *string `json:"fontColor,omitempty"`
	FontFamily      *string `json:"fontFamily,omitempty"`
	FontStyle       *string `json:"fontStyle,omitempty"`
	TextAlign       *string `json:"textAlign,omitempty"`
	TextDecoration  *string `json:"textDecoration,omitempty"`
	TextTransform   *string `json:"textTransform,omitempty"`
	BackgroundColor *string `json:"backgroundColor,omitempty"`
	IsQuote         *bool   `json:"isQuote,omitempty"`
	IsHighlight     *bool   `json:"isHighlight,omitempty"`
}

func (s Section) withStyle(patch StylePatch) Section {
	if patch.FontSize != nil {
		s.FontSize = *patch.FontSize
	}
	if patch.FontWeight != nil {
		s.FontWeight = *patch.FontWeight
	}
	if patch.FontColor != nil {
		s.FontColor = *patch.FontColor
	}
	if patch.FontFamily != nil {
		s.FontFamily = *patch.FontFamily
	}
	if patch.FontStyle != nil {
		s.FontStyle = *patch.FontStyle
	}
	if patch.TextAlign != nil {
		s.TextAlign = *patch.TextAlign
	}
	if patch.TextDecoration != nil {
		s.TextDecoration = *patch.TextDecoration
	}
	if patch.TextTransform != nil {
		s.TextTransform = *patch.TextTransform
	}
	if patch.BackgroundColor != nil {
		s.BackgroundColor = *patch.BackgroundColor
	}
	if patch.IsQuote != nil {
		s.IsQuote = *patch.IsQuote
	}
	if patch.IsHighlight != nil {
		s.IsHighlight = *patch.IsHighlight
	}
	return s
}
