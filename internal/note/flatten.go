package note

import "strings"

// Flatten renders the tree to plain text for the pipeline. Headings become
// their own "Title:" lines so the sectionizer can recognize them in files
// whose structure came from markup rather than from literal title lines.
func Flatten(tree *Tree) string {
	var sb strings.Builder
	var walk func(nodes []*Node)
	walk = func(nodes []*Node) {
		for _, n := range nodes {
			if n.Title != "" {
				if sb.Len() > 0 {
					sb.WriteString("\n\n")
				}
				sb.WriteString(n.Title)
				if !strings.HasSuffix(n.Title, ":") {
					sb.WriteString(":")
				}
				sb.WriteString("\n")
			}
			if n.Text != "" {
				if n.Title == "" && sb.Len() > 0 {
					sb.WriteString("\n\n")
				}
				sb.WriteString(n.Text)
			}
			walk(n.Children)
		}
	}
	walk(tree.Children)
	return sb.String()
}
