package commentservice

import "sort"

// BuildThread reconstructs the reply forest from flat rows. A comment whose
// parent_id resolves to another comment in the batch becomes its reply;
// anything else, including replies to since-deleted comments, becomes a
// root. Roots are ordered newest first, replies oldest first. ownerID marks
// the post author's own comments.
func BuildThread(comments []Comment, ownerID int) []*CommentNode {
	nodes := make(map[int]*CommentNode, len(comments))
	for i := range comments {
		c := comments[i]
		nodes[c.ID] = &CommentNode{
			Comment: c,
			IsOwner: c.AuthorID == ownerID,
			Replies: []*CommentNode{},
		}
	}

	var roots []*CommentNode
	for i := range comments {
		node := nodes[comments[i].ID]
		if node.ParentID != nil {
			if parent, ok := nodes[*node.ParentID]; ok {
				parent.Replies = append(parent.Replies, node)
				continue
			}
		}
		roots = append(roots, node)
	}

	sort.SliceStable(roots, func(i, j int) bool {
		return roots[i].CreatedAt.After(roots[j].CreatedAt)
	})
	for _, node := range nodes {
		sortReplies(node)
	}

	return roots
}

func sortReplies(node *CommentNode) {
	sort.SliceStable(node.Replies, func(i, j int) bool {
		return node.Replies[i].CreatedAt.Before(node.Replies[j].CreatedAt)
	})
}
