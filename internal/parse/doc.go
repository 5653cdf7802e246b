// Package parse turns the content of a clone! invocation into clone
// requests.
//
// The grammar is deliberately small:
//
//	Content := Request ("," Request)*
//	Request := ["mut"] Expr
//	Expr    := Path Postfix*
//	Path    := Ident ("::" Ident)*
//	Postfix := "." Ident | "." Number | "(" ... ")"
//
// A request is classified by its final operation: a bare path binds its
// last segment, a field access binds the field, and a method call binds
// the method name. Everything else is rejected with a diagnostic naming
// the construct, so a caller never has to guess why nothing expanded.
package parse
