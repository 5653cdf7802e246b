package parse

import "letclone/internal/scan"

// Shape classifies a supported expression by its final operation.
type Shape int

const (
	// ShapePath is a bare identifier or a :: path.
	ShapePath Shape = iota
	// ShapeField is an access whose final segment is a named field.
	ShapeField
	// ShapeMethod is a call whose final operation is a named method.
	ShapeMethod
)

// String returns a human-readable shape name.
func (s Shape) String() string {
	switch s {
	case ShapePath:
		return "path"
	case ShapeField:
		return "field"
	case ShapeMethod:
		return "method"
	default:
		return "unknown"
	}
}

// Request is one comma-separated entry of an invocation.
type Request struct {
	// Mut marks the resulting binding as mutable.
	Mut bool
	// Expr is the expression to clone.
	Expr Expr
}

// Expr is one cloneable expression.
type Expr struct {
	// Shape of the final operation.
	Shape Shape
	// Name is the final segment; it becomes the binding name.
	Name string
	// NameSpan locates Name within the invocation content.
	NameSpan scan.Span
	// Span covers the expression exactly as written, without any mut
	// marker.
	Span scan.Span
	// Text is the verbatim source slice covered by Span.
	Text string
}
