// Package fsa reads the compiled word-form dictionaries (.dict files) used by
// the tagger, the synthesizer and the speller.
//
// A dictionary maps a surface key to an ordered list of (stem, tag) entries.
// The file is memory-mapped read-only and queried in place: keys are stored
// sorted and looked up by binary search, entry stems and tags are ids into a
// shared string pool. Nothing is copied to the heap except the strings handed
// back to callers, so a Dictionary is safe for concurrent use by any number of
// goroutines.
//
// File layout (little endian):
//
//	header        magic "SRF1", version, counts, section offsets
//	key index     KeyCount+1 uint32 offsets into key bytes
//	key bytes     concatenated keys, sorted bytewise
//	entry index   KeyCount+1 uint32 positions into the entry table
//	entries       EntryCount pairs of uint32 (stem id, tag id)
//	pool index    PoolCount+1 uint32 offsets into pool bytes
//	pool bytes    concatenated interned strings
package fsa

import (
	"encoding/binary"
	"errors"
)

const (
	magic         = "SRF1"
	formatVersion = 1
)

// ErrCorrupt is returned when a dictionary file fails structural validation.
var ErrCorrupt = errors.New("fsa: corrupt dictionary")

// header is the fixed-size map of the file.
type header struct {
	Magic            [4]byte
	Version          uint32
	KeyCount         uint32
	EntryCount       uint32
	PoolCount        uint32
	KeyIndexOffset   int64
	KeyBytesOffset   int64
	EntryIndexOffset int64
	EntriesOffset    int64
	PoolIndexOffset  int64
	PoolBytesOffset  int64
}

var headerSize = binary.Size(header{})

// Entry is one value attached to a key. For tagging dictionaries Stem is the
// lemma; for synthesis dictionaries it is the inflected surface form.
type Entry struct {
	Stem string
	Tag  string
}

// Record is one (key, stem, tag) line fed to Build.
type Record struct {
	Key  string
	Stem string
	Tag  string
}
