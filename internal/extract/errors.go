package extract

import "fmt"

// StructuralError reports a syntax tree shape that violates the grammar
// contract, such as a decorated definition with no definition inside.
// Ordinary malformed code never triggers it; the extractor skips what it
// cannot read. It signals a bug or a grammar change.
type StructuralError struct {
	NodeType string
	Line     uint32
	Column   uint32
}

// Error implements the error interface.
func (e *StructuralError) Error() string {
	return fmt.Sprintf("%d:%d: malformed %s node", e.Line, e.Column, e.NodeType)
}
