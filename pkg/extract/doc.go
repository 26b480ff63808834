// Package extract builds a table of metadata records from a batch of image
// files.
//
// Each file is decoded by a decoder.Decoder. Files without metadata are
// skipped; every other file contributes one Record. The names of all
// fields seen so far are kept in a Schema that only ever grows at the end,
// so column order is stable across files. Decimal GPS coordinates are
// derived from the raw degree/minute/second fields when present.
//
// A batch either completes or fails as a whole: the first unreadable or
// undecodable file aborts the run and no table is returned.
package extract
