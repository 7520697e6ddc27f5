package content

import (
	"encoding/json"
	"fmt"
	"strings"
)

type NodeType string

const (
	TypeDoc         NodeType = "doc"
	TypeParagraph   NodeType = "paragraph"
	TypeHeading     NodeType = "heading"
	TypeBulletList  NodeType = "bulletList"
	TypeOrderedList NodeType = "orderedList"
	TypeListItem    NodeType = "listItem"
	TypeBlockquote  NodeType = "blockquote"
	TypeCodeBlock   NodeType = "codeBlock"
	TypeImage       NodeType = "image"
	TypeText        NodeType = "text"
	TypeYoutube     NodeType = "youtube"
)

// containerTypes lists the node types that carry a Content slice. Everything
// else is a leaf.
var containerTypes = map[NodeType]bool{
	TypeDoc:         true,
	TypeParagraph:   true,
	TypeHeading:     true,
	TypeBulletList:  true,
	TypeOrderedList: true,
	TypeListItem:    true,
	TypeBlockquote:  true,
	TypeCodeBlock:   true,
}

type Mark struct {
	Type  string         `json:"type"`
	Attrs map[string]any `json:"attrs,omitempty"`
}

const (
	MarkBold      = "bold"
	MarkItalic    = "italic"
	MarkUnderline = "underline"
	MarkLink      = "link"
)

// Node is one node of the editor document tree. The same struct represents
// every node type; which fields are meaningful depends on Type.
type Node struct {
	Type    NodeType       `json:"type"`
	Attrs   map[string]any `json:"attrs,omitempty"`
	Content []*Node        `json:"content,omitempty"`
	Text    string         `json:"text,omitempty"`
	Marks   []Mark         `json:"marks,omitempty"`
}

func NewDoc(children ...*Node) *Node {
	return &Node{Type: TypeDoc, Content: children}
}

func NewParagraph(children ...*Node) *Node {
	return &Node{Type: TypeParagraph, Content: children}
}

func NewText(text string, marks ...Mark) *Node {
	return &Node{Type: TypeText, Text: text, Marks: marks}
}

func NewImage(src, alt string) *Node {
	return &Node{Type: TypeImage, Attrs: map[string]any{"src": src, "alt": alt}}
}

func (n *Node) IsContainer() bool {
	return containerTypes[n.Type]
}

// StringAttr returns the named attribute when it is a string, otherwise "".
func (n *Node) StringAttr(key string) string {
	if n.Attrs == nil {
		return ""
	}
	s, _ := n.Attrs[key].(string)
	return s
}

// SetAttr returns a copy of the node with the attribute set. The receiver is
// not modified.
func (n *Node) SetAttr(key string, value any) *Node {
	out := *n
	out.Attrs = make(map[string]any, len(n.Attrs)+1)
	for k, v := range n.Attrs {
		out.Attrs[k] = v
	}
	out.Attrs[key] = value
	return &out
}

func ParseDoc(data []byte) (*Node, error) {
	var root Node
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse content tree: %w", err)
	}
	if err := Validate(&root); err != nil {
		return nil, err
	}
	return &root, nil
}

// Validate checks the structural invariants: Content only on container
// types, Text and Marks only on text leaves, heading levels in 1..3, and a
// src attribute on every image node.
func Validate(root *Node) error {
	if root == nil {
		return fmt.Errorf("content tree is nil")
	}
	if root.Type != TypeDoc {
		return fmt.Errorf("content tree root must be %q, got %q", TypeDoc, root.Type)
	}
	return validateNode(root)
}

func validateNode(n *Node) error {
	if !validType(n.Type) {
		return fmt.Errorf("unknown node type %q", n.Type)
	}
	if len(n.Content) > 0 && !n.IsContainer() {
		return fmt.Errorf("%s node must not have content", n.Type)
	}
	if n.Type != TypeText && (n.Text != "" || len(n.Marks) > 0) {
		return fmt.Errorf("%s node must not carry text or marks", n.Type)
	}
	switch n.Type {
	case TypeHeading:
		level, ok := headingLevel(n)
		if !ok || level < 1 || level > 3 {
			return fmt.Errorf("heading level must be between 1 and 3")
		}
	case TypeImage:
		if n.StringAttr("src") == "" {
			return fmt.Errorf("image node requires a src attribute")
		}
	}
	for _, child := range n.Content {
		if err := validateNode(child); err != nil {
			return err
		}
	}
	return nil
}

func validType(t NodeType) bool {
	switch t {
	case TypeDoc, TypeParagraph, TypeHeading, TypeBulletList, TypeOrderedList,
		TypeListItem, TypeBlockquote, TypeCodeBlock, TypeImage, TypeText, TypeYoutube:
		return true
	}
	return false
}

// headingLevel reads attrs.level, tolerating the float64 that encoding/json
// produces for numbers.
func headingLevel(n *Node) (int, bool) {
	if n.Attrs == nil {
		return 0, false
	}
	switch v := n.Attrs["level"].(type) {
	case int:
		return v, true
	case float64:
		return int(v), true
	}
	return 0, false
}

// HasContent reports whether the tree holds at least one non-empty node:
// a text leaf with visible characters, an image, or a youtube embed. A tree
// of empty paragraphs does not count.
func HasContent(root *Node) bool {
	if root == nil {
		return false
	}
	found := false
	Walk(root, func(n *Node) {
		switch n.Type {
		case TypeText:
			if strings.TrimSpace(n.Text) != "" {
				found = true
			}
		case TypeImage, TypeYoutube:
			found = true
		}
	})
	return found
}
