// Package note holds the intermediate form of a parsed clinical note file:
// a title plus heading-nested nodes, before flattening into the plain text
// the NLP pipeline runs on.
package note

// Tree is the root of a parsed note file.
type Tree struct {
	Title    string  // Note title (from metadata or filename)
	Children []*Node // Top-level sections
}

// Node is a recursive section of the note.
type Node struct {
	Title    string  // Heading text (empty for leaf text)
	Text     string  // Text content (may be empty for container nodes)
	Page     int     // Source page (0 if N/A)
	Children []*Node // Subsections
}
