// Package tool binds typed Go functions to the JSON calling convention used
// by language models.
//
// [NewTool] wraps a func(ctx, I) (O, error) together with a name, a
// description and JSON schemas derived from I and O. [Tool.Call] decodes the
// model's JSON arguments, runs the function and encodes the result. Argument
// decoding failures wrap [ErrInvalidInput] so the caller can tell a malformed
// call apart from a failing one.
//
// A [Catalog] is the thread-safe, case-insensitive registry the agent runtime
// dispatches tool calls through.
package tool
