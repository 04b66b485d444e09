package blog

// Editor operations over the ordered section list of a blog being authored.
// All operations treat the input as immutable and return a fresh slice; the
// caller's slice is never touched. Indices are bounds-checked and an
// out-of-range index yields ErrIndexOutOfRange.

// InsertAtEnd can be passed to InsertSection as the after index to append.
const InsertAtEnd = -1

// InsertSection returns a new list with a fresh default section of the given
// type inserted right after index `after`, or appended when after == InsertAtEnd.
func InsertSection(sections []Section, after int, sectionType SectionType) ([]Section, error) {
	if after == InsertAtEnd {
		out := make([]Section, 0, len(sections)+1)
		out = append(out, sections...)
		return append(out, NewSection(sectionType)), nil
	}

	if after < 0 || after >= len(sections) {
		return nil, ErrIndexOutOfRange
	}

	out := make([]Section, 0, len(sections)+1)
	out = append(out, sections[:after+1]...)
	out = append(out, NewSection(sectionType))
	out = append(out, sections[after+1:]...)
	return out, nil
}

// RemoveSection returns a new list without the section at index i.
// A blog must stay renderable while edited, so removing the last remaining
// section is refused with ErrLastSection and the input is returned unchanged.
func RemoveSection(sections []Section, i int) ([]Section, error) {
	if i < 0 || i >= len(sections) {
		return nil, ErrIndexOutOfRange
	}
	if len(sections) <= 1 {
		return sections, ErrLastSection
	}

	out := make([]Section, 0, len(sections)-1)
	out = append(out, sections[:i]...)
	out = append(out, sections[i+1:]...)
	return out, nil
}

// MoveSectionUp swaps the section at index i with the one before it.
// Moving the first section up is a no-op.
func MoveSectionUp(sections []Section, i int) ([]Section, error) {
	if i < 0 || i >= len(sections) {
		return nil, ErrIndexOutOfRange
	}

	out := append([]Section(nil), sections...)
	if i == 0 {
		return out, nil
	}

	out[i-1], out[i] = out[i], out[i-1]
	return out, nil
}

// MoveSectionDown swaps the section at index i with the one after it.
// Moving the last section down is a no-op.
func MoveSectionDown(sections []Section, i int) ([]Section, error) {
	if i < 0 || i >= len(sections) {
		return nil, ErrIndexOutOfRange
	}

	out := append([]Section(nil), sections...)
	if i == len(sections)-1 {
		return out, nil
	}

	out[i], out[i+1] = out[i+1], out[i]
	return out, nil
}

// SetSectionContent replaces only the content of the section at index i.
func SetSectionContent(sections []Section, i int, content string) ([]Section, error) {
	if i < 0 || i >= len(sections) {
		return nil, ErrIndexOutOfRange
	}

	out := append([]Section(nil), sections...)
	out[i].Content = content
	return out, nil
}

// ApplySectionStyle shallow-merges the set fields of the patch into the
// section at index i, leaving all other sections untouched.
func ApplySectionStyle(sections []Section, i int, patch StylePatch) ([]Section, error) {
	if i < 0 || i >= len(sections) {
		return nil, ErrIndexOutOfRange
	}

	out := append([]Section(nil), sections...)
	out[i] = out[i].withStyle(patch)
	return out, nil
}
