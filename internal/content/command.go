package content

import "fmt"

// Command is one editor mutation. Apply never modifies the input tree; the
// editor holds whatever the last Apply returned.
type Command interface {
	Apply(root *Node) (*Node, error)
}

// AppendBlock adds a block node to the end of the document.
type AppendBlock struct {
	Block *Node
}

func (c AppendBlock) Apply(root *Node) (*Node, error) {
	if c.Block == nil {
		return nil, fmt.Errorf("append block: block is nil")
	}
	if err := validateNode(c.Block); err != nil {
		return nil, fmt.Errorf("append block: %w", err)
	}
	out := *root
	out.Content = make([]*Node, 0, len(root.Content)+1)
	out.Content = append(out.Content, root.Content...)
	out.Content = append(out.Content, c.Block)
	return &out, nil
}

// RemoveBlock deletes the block at the given top-level index.
type RemoveBlock struct {
	Index int
}

func (c RemoveBlock) Apply(root *Node) (*Node, error) {
	if c.Index < 0 || c.Index >= len(root.Content) {
		return nil, fmt.Errorf("remove block: index %d out of range", c.Index)
	}
	out := *root
	out.Content = make([]*Node, 0, len(root.Content)-1)
	out.Content = append(out.Content, root.Content[:c.Index]...)
	out.Content = append(out.Content, root.Content[c.Index+1:]...)
	return &out, nil
}

// ReplaceBlock swaps the block at the given top-level index.
type ReplaceBlock struct {
	Index int
	Block *Node
}

func (c ReplaceBlock) Apply(root *Node) (*Node, error) {
	if c.Index < 0 || c.Index >= len(root.Content) {
		return nil, fmt.Errorf("replace block: index %d out of range", c.Index)
	}
	if c.Block == nil {
		return nil, fmt.Errorf("replace block: block is nil")
	}
	if err := validateNode(c.Block); err != nil {
		return nil, fmt.Errorf("replace block: %w", err)
	}
	out := *root
	out.Content = make([]*Node, len(root.Content))
	copy(out.Content, root.Content)
	out.Content[c.Index] = c.Block
	return &out, nil
}

// SetImageSource rewrites every image node whose src equals Old to New.
type SetImageSource struct {
	Old string
	New string
}

func (c SetImageSource) Apply(root *Node) (*Node, error) {
	if c.Old == "" || c.New == "" {
		return nil, fmt.Errorf("set image source: old and new src must be provided")
	}
	return RewriteMediaRefs(root, map[string]string{c.Old: c.New}), nil
}

// ApplyAll folds a sequence of commands over the tree, returning the final
// tree. The fold stops at the first failing command.
func ApplyAll(root *Node, commands ...Command) (*Node, error) {
	tree := root
	for _, cmd := range commands {
		next, err := cmd.Apply(tree)
		if err != nil {
			return nil, err
		}
		tree = next
	}
	return tree, nil
}
