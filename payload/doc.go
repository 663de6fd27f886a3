// Package payload assembles request documents from an edited data tree.
//
// An [Assembler] validates the header [Selection], checks the optional
// execution time against its clock, and attaches the body section of the
// data tree after pruning it with [Prune]. An empty body is still attached as
// {} when the governing schema declares a body section with something to
// fill in; a body schema that is an object with no properties and no
// additional properties is left out entirely.
//
// [Encode] and [Curl] render an assembled [Document] for display.
package payload
