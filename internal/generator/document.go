package generator

import "strings"

// Section is one heading plus its Markdown body.
type Section struct {
	Heading string
	Body    string
}

// Document is an ordered list of sections rendered by a single serializer,
// so template changes stay in one place.
type Document struct {
	Intro    string
	sections []Section
}

// Add appends a section; ordering is the append order.
func (d *Document) Add(heading, body string) {
	d.sections = append(d.sections, Section{Heading: heading, Body: body})
}

// Sections returns the sections in render order.
func (d *Document) Sections() []Section {
	return d.sections
}

// Render serializes the document to Markdown: intro paragraph first, then
// each section as an H2 block.
func (d *Document) Render() string {
	var b strings.Builder

	if intro := strings.TrimSpace(d.Intro); intro != "" {
		b.WriteString(intro)
		b.WriteString("\n\n")
	}

	for _, s := range d.sections {
		b.WriteString("## ")
		b.WriteString(strings.TrimSpace(s.Heading))
		b.WriteString("\n\n")
		b.WriteString(strings.TrimSpace(s.Body))
		b.WriteString("\n\n")
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}
