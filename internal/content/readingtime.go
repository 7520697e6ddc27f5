package content

import "strings"

// wordsPerMinute matches the average adult reading speed used across the
// editor UI.
const wordsPerMinute = 200

// EstimateReadingTime derives the reading time in whole minutes from the
// tree's text. Text leaves are joined with a space so words cannot merge
// across node boundaries. The result is never below one minute, even for an
// empty tree.
func EstimateReadingTime(root *Node) int {
	text := strings.Join(ExtractText(root), " ")
	words := len(strings.Fields(text))

	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}
