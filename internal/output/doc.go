// Package output classifies and parses the text go-spatial writes to its
// output stream: progress lines, diagnostics, tool listings, and argument
// descriptions.
package output
