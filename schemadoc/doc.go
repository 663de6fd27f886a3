// Package schemadoc loads an OpenAPI-style schema document and resolves the
// internal references inside it.
//
// A [Document] keeps the parsed document with its mapping order intact, so
// schemas returned by [Document.Resolve] carry a PropertyOrder that matches
// the source file. Documents may be JSON or YAML; both are parsed with
// goccy/go-yaml.
//
// References must be internal JSON Pointers starting with "#/". Each pointer
// token is unescaped per RFC 6901 ("~1" is "/", "~0" is "~") and walked
// against the document root. Any missing key yields an error wrapping
// [ErrUnresolvableReference].
//
// Schema nodes are classified once into a [Kind] by [Classify]; callers
// switch on the kind instead of probing for attributes:
//
//	node, err := doc.Node(schema)
//	switch node.Kind {
//	case schemadoc.KindObject:
//		// node.Schema.Properties ...
//	case schemadoc.KindArray:
//		// node.Schema.Items ...
//	}
//
// Reference cycles are not supported. [Document.Deref] stops with an error
// when a chain of references revisits a pointer.
package schemadoc
