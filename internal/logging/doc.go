// Package logging provides implementations of the testmeta.Logger interface.
//
//   - ConsoleLogger: writes prefixed lines to stderr or any io.Writer
//   - NullLogger: discards all messages
//
// Both are safe for concurrent use.
package logging
