// Package flat provides an exact in-memory vector index.
//
// Every search compares the query against every stored vector using squared
// Euclidean distance. Lower distance means more similar. An index is
// immutable once built; ingesting new sources builds a new index.
package flat
