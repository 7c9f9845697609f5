// Package message defines the typed messages of the assignment protocol and
// the dispatcher that runs them.
//
// Messages express client intent on the write path. Each variant carries the
// permission it requires, its own payload fields, and the statements it
// issues against the store. The dispatcher owns the fixed pipeline —
// validate, authorize, execute — so no variant can skip or reorder the
// checks, and every processed message yields exactly one outcome code.
//
// The package-level registry keeps decoding consistent: a type-tagged wire
// payload is decoded directly into a fully formed variant, and no empty
// intermediate object is ever exposed to the pipeline.
package message
