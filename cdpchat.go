// Package cdpchat provides a command-line support assistant that answers
// questions about a set of named platforms using per-platform documentation
// corpora and an extractive question answering backend.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., gemini/, sqlite/, trafilatura/).
package cdpchat
