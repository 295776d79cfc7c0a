// Package spool ingests NDJSON drops from the document pipeline.
//
// The pipeline that acquires and converts documents runs outside this
// tool; the handover boundary is a spool directory of newline-delimited
// JSON files. Reader functions decode drops into indexable documents
// and deletion signals, and Watcher tails the directory and reports new
// drops as they settle.
package spool
