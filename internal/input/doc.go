// Package input reads address lists from files and standard input.
//
// Three formats are supported: plain text (one token per line, with blank
// lines and # comments ignored), CSV (an "address" header column, or the
// first column when no header names one), and JSON (an array of strings or
// of objects with an "address" field). Files are detected by extension;
// stdin is sniffed from its first bytes.
//
// Readers only tokenize. Every syntactically present token is passed
// through as a RawEntry with its source and line recorded; validation and
// rejection are the normalizer's job, so malformed tokens still show up in
// the report's rejection list instead of vanishing here.
package input
