// Package form binds a request body schema to an editable data tree.
//
// A [Session] is the context object for one editing session. Selecting a
// governing schema with [Session.Select] clears the data tree, seeds empty
// sequences for arrays and derives a tree of [Field] descriptors for a
// renderer. Schema defaults stay on the descriptors as hints, so untouched
// fields never reach the assembled body. Descriptors are read-only; every
// structural change (selection, adding or removing array items) regenerates
// them from the schema and the current data tree, so descriptor paths always
// match element positions.
//
// Edits flow through [Session.Apply], which coerces the raw input to the
// schema type with [Coerce] and writes it into the data tree:
//
//	sess := form.NewSession(doc)
//	err := sess.Select(requestSchema)
//	// ...
//	err = sess.Apply(datapath.MustParse("bodyParameters.count"), "12")
//
// A value that cannot be parsed as the declared numeric type raises an error
// flag for its path (see [Session.Errors]) but never blocks later edits.
//
// # Array items
//
// [Session.AddItem] appends a seeded element to an array field and
// [Session.RemoveItem] splices one out. Removal renumbers the following
// siblings: their descriptors are regenerated, and error flags recorded under
// them move down by one index.
package form
