// Package xmltree parses XML documents into a simple element tree so that
// callers can normalize cardinality and field policies against a stable
// shape instead of switching on dynamic value types.
package xmltree

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

const xsiNamespace = "http://www.w3.org/2001/XMLSchema-instance"

// Node is one XML element: its attributes, concatenated trimmed character
// data, and child elements in document order.
type Node struct {
	Name     string
	Attr     map[string]string
	Text     string
	Children []*Node
}

// Parse reads an XML document and returns its root element. Any syntax
// error aborts the parse.
func Parse(data []byte) (*Node, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	var root *Node
	var stack []*Node
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("malformed XML: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{Name: t.Name.Local}
			if len(t.Attr) > 0 {
				n.Attr = make(map[string]string, len(t.Attr))
				for _, a := range t.Attr {
					n.Attr[attrKey(a.Name)] = a.Value
				}
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("malformed XML: multiple root elements")
				}
				root = n
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			}
			stack = append(stack, n)
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("malformed XML: unexpected end of element %s", t.Name.Local)
			}
			top := stack[len(stack)-1]
			top.Text = strings.TrimSpace(top.Text)
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Text += string(t)
			}
		}
	}
	if root == nil {
		return nil, fmt.Errorf("malformed XML: no root element")
	}
	if len(stack) != 0 {
		return nil, fmt.Errorf("malformed XML: element %s never closed", stack[len(stack)-1].Name)
	}
	return root, nil
}

// attrKey renders an attribute name with its prefix. The Go decoder resolves
// prefixes to namespace URIs, so the common XSI namespace is mapped back.
func attrKey(name xml.Name) string {
	switch name.Space {
	case "":
		return name.Local
	case "xmlns":
		return "xmlns:" + name.Local
	case xsiNamespace:
		return "xsi:" + name.Local
	default:
		return name.Space + ":" + name.Local
	}
}

// AttrValue returns the attribute value for key, or "" when absent.
func (n *Node) AttrValue(key string) string {
	if n == nil {
		return ""
	}
	return n.Attr[key]
}

// First returns the first child element with the given name, or nil.
func (n *Node) First(name string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// All returns every child element with the given name, in document order.
func (n *Node) All(name string) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// ChildText returns the text of the first child with the given name, or "".
func (n *Node) ChildText(name string) string {
	if c := n.First(name); c != nil {
		return c.Text
	}
	return ""
}

// Values flattens the named children into their scalar texts, normalizing
// cardinality: VALUE-wrapped lists, repeated siblings, and single elements
// all become a plain string slice, and an absent element becomes an empty
// one. The result is never nil.
func (n *Node) Values(name string) []string {
	out := []string{}
	for _, c := range n.All(name) {
		wrapped := c.All("VALUE")
		if len(wrapped) == 0 {
			if c.Text != "" {
				out = append(out, c.Text)
			}
			continue
		}
		for _, v := range wrapped {
			if v.Text != "" {
				out = append(out, v.Text)
			}
		}
	}
	return out
}
