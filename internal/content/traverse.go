package content

// Walk visits every node of the tree depth-first in document order. It never
// mutates the tree.
func Walk(n *Node, visit func(*Node)) {
	if n == nil {
		return
	}
	visit(n)
	for _, child := range n.Content {
		Walk(child, visit)
	}
}

// ExtractText collects the text of every text leaf in document order.
func ExtractText(root *Node) []string {
	var out []string
	Walk(root, func(n *Node) {
		if n.Type == TypeText {
			out = append(out, n.Text)
		}
	})
	return out
}

// ExtractMediaRefs collects the src attribute of every image node in
// document order, including images nested inside lists, quotes and headings.
func ExtractMediaRefs(root *Node) []string {
	var refs []string
	Walk(root, func(n *Node) {
		if n.Type == TypeImage {
			if src := n.StringAttr("src"); src != "" {
				refs = append(refs, src)
			}
		}
	})
	return refs
}

// RewriteMediaRefs returns a new tree in which every image node whose src is
// a key of resolved has been rewritten to the mapped value. Nodes whose src
// is absent from the map are left untouched, as is the input tree.
func RewriteMediaRefs(root *Node, resolved map[string]string) *Node {
	if root == nil || len(resolved) == 0 {
		return root
	}
	return rewriteNode(root, resolved)
}

func rewriteNode(n *Node, resolved map[string]string) *Node {
	if n.Type == TypeImage {
		if url, ok := resolved[n.StringAttr("src")]; ok {
			n = n.SetAttr("src", url)
		}
	}
	if len(n.Content) == 0 {
		return n
	}
	children := make([]*Node, len(n.Content))
	for i, child := range n.Content {
		children[i] = rewriteNode(child, resolved)
	}
	out := *n
	out.Content = children
	return &out
}
