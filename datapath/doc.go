// Package datapath addresses locations inside a data tree of nested
// map[string]any and []any values.
//
// A [Path] is parsed once from its string form and reused. The string form
// joins mapping keys with dots and writes sequence indices in brackets:
//
//	bodyParameters.meters[0].mpan
//
// A dotted segment made only of digits is also read as an index, so
// "meters.0.mpan" and "meters[0].mpan" address the same location. Paths always
// start with a mapping key because the tree root is a mapping.
//
// [Set] creates missing intermediate containers. The container kind is chosen
// from the step that follows it: an index step needs a sequence, a key step
// needs a mapping. Writing [Absent] removes a mapping member, or leaves a hole
// in a sequence so sibling indices stay stable. [Get] reports holes as
// missing.
package datapath
