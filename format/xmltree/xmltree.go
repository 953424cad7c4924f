// Package xmltree builds ordered XML element trees and writes them indented.
//
// Serializers that project dynamic documents into XML (OAI-PMH LOM, oai_dc)
// build an Element tree first so callers can inspect or embed it before it is
// written:
//
//	root := xmltree.New("lom").SetAttr("xmlns", ns)
//	root.AddChild("general").AddChild("title").SetText("Algebra")
//	data, err := xmltree.Marshal(root)
package xmltree

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Attr is an element attribute. Attribute order is preserved.
type Attr struct {
	Name  string
	Value string
}

// Element is one XML element. Text is written before any children.
type Element struct {
	Name     string
	Attrs    []Attr
	Text     string
	Children []*Element
}

// New creates an element.
func New(name string) *Element {
	return &Element{Name: name}
}

// SetAttr sets or replaces an attribute and returns e.
func (e *Element) SetAttr(name, value string) *Element {
	for i := range e.Attrs {
		if e.Attrs[i].Name == name {
			e.Attrs[i].Value = value
			return e
		}
	}
	e.Attrs = append(e.Attrs, Attr{Name: name, Value: value})
	return e
}

// Attr returns the value of attribute name.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// SetText sets the text content and returns e.
func (e *Element) SetText(text string) *Element {
	e.Text = text
	return e
}

// AddChild appends a new child element and returns it.
func (e *Element) AddChild(name string) *Element {
	child := New(name)
	e.Children = append(e.Children, child)
	return child
}

// Append adds existing elements as children.
func (e *Element) Append(children ...*Element) {
	e.Children = append(e.Children, children...)
}

// Find returns the first element matching the slash-separated path of child
// names, e.g. "general/title/langstring".
func (e *Element) Find(path string) *Element {
	all := e.FindAll(path)
	if len(all) == 0 {
		return nil
	}
	return all[0]
}

// FindAll returns every element matching the slash-separated path.
func (e *Element) FindAll(path string) []*Element {
	current := []*Element{e}
	for _, name := range strings.Split(path, "/") {
		var next []*Element
		for _, el := range current {
			for _, c := range el.Children {
				if c.Name == name {
					next = append(next, c)
				}
			}
		}
		current = next
	}
	return current
}

// MarshalOptions configures XML output.
type MarshalOptions struct {
	Indent string // Indentation string (default: "  ")
	Header bool   // Emit the <?xml ...?> declaration
}

// Marshal serializes e with two-space indentation.
func Marshal(e *Element) ([]byte, error) {
	return MarshalWithOptions(e, MarshalOptions{Indent: "  "})
}

// MarshalWithOptions serializes with custom options.
func MarshalWithOptions(e *Element, opts MarshalOptions) ([]byte, error) {
	var buf strings.Builder
	if opts.Header {
		buf.WriteString(xml.Header)
	}
	if err := marshalElement(&buf, e, opts, 0); err != nil {
		return nil, err
	}
	return []byte(buf.String()), nil
}

// WriteTo writes e to w preceded by the XML declaration.
func WriteTo(w io.Writer, e *Element) error {
	data, err := MarshalWithOptions(e, MarshalOptions{Indent: "  ", Header: true})
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func marshalElement(buf *strings.Builder, e *Element, opts MarshalOptions, depth int) error {
	if !validName(e.Name) {
		return fmt.Errorf("invalid element name %q", e.Name)
	}
	indent := strings.Repeat(opts.Indent, depth)

	buf.WriteString(indent)
	buf.WriteString("<")
	buf.WriteString(e.Name)
	for _, a := range e.Attrs {
		if !validName(a.Name) {
			return fmt.Errorf("invalid attribute name %q on <%s>", a.Name, e.Name)
		}
		fmt.Fprintf(buf, ` %s="%s"`, a.Name, escape(a.Value))
	}

	if len(e.Children) == 0 {
		if e.Text == "" {
			buf.WriteString("/>\n")
			return nil
		}
		buf.WriteString(">")
		buf.WriteString(escape(e.Text))
		buf.WriteString("</")
		buf.WriteString(e.Name)
		buf.WriteString(">\n")
		return nil
	}

	buf.WriteString(">")
	buf.WriteString(escape(e.Text))
	buf.WriteString("\n")
	for _, c := range e.Children {
		if err := marshalElement(buf, c, opts, depth+1); err != nil {
			return err
		}
	}
	buf.WriteString(indent)
	buf.WriteString("</")
	buf.WriteString(e.Name)
	buf.WriteString(">\n")
	return nil
}

// validName accepts XML names with at most one namespace prefix.
func validName(name string) bool {
	if name == "" || strings.Count(name, ":") > 1 {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_' || r == ':' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r > 0x7f:
		case i > 0 && (r == '-' || r == '.' || r >= '0' && r <= '9'):
		default:
			return false
		}
	}
	return true
}

// escape escapes s for text and attribute values. Characters XML does not
// allow are replaced with U+FFFD.
func escape(s string) string {
	var buf strings.Builder
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
