// Package parsers routes files to format-specific extractors.
//
// Parsers are assembled into an explicit registry at startup from a
// Capabilities value; optional formats are simply not registered, so
// the cascade logic branches on booleans instead of probing for
// libraries at use-time.
//
// PDF inputs aggregate output across every claiming parser, because a
// single PDF commonly contains both prose and tabular data that
// different extractors recover best. All other formats cascade in
// ranked order and keep the first non-empty result.
package parsers
