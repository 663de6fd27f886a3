// Package request drives the selections that precede a request body.
//
// A [Builder] walks environment, role, DUIS version, SRV, command variant and
// target in that order. Each selection narrows the choices for the next one;
// changing a selection clears everything after it. Selecting an SRV resolves
// its request schema from the catalog and rebuilds the body form.
//
// [Config] binds the same selections to CLI flags and replays them onto a new
// [Builder], along with any body edits given as --set and --add.
package request
