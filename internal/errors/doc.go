// Package errors provides structured, actionable error messages for vtree's
// command-line tool and transport service.
//
// The errors package implements an error system that:
//   - Shows exact source locations (file, line, column) when one is known
//   - Explains what went wrong in plain language
//   - Suggests how to fix issues
//   - Links to documentation for deeper understanding
//
// # Error Categories
//
// Errors are organized into categories:
//   - config: configuration file errors (missing fields, bad JSON)
//   - codec: malformed Node/NodeOp/AttrOp wire payloads
//   - transport: HTTP/WebSocket request errors
//   - snapshot: document-snapshot store errors (memory or S3 backed)
//   - cli: command-line flag and argument errors
//
// # Error Codes
//
// Each error has a unique code (e.g., "E001") that maps to:
//   - A short message describing the error
//   - A detailed explanation
//   - A documentation URL
//
// # Usage
//
//	err := errors.New("E001").
//	    WithLocation("config.json", 15, 12).
//	    WithSuggestion("add a \"port\" field to the transport section")
//
//	fmt.Println(err.Format())
package errors
