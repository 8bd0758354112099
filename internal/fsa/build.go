package fsa

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sort"
)

// Build writes records as a compiled dictionary. Records sharing a key keep
// their relative order; exact duplicates are dropped.
func Build(w io.Writer, records []Record) error {
	recs := make([]Record, 0, len(records))
	for _, r := range records {
		if r.Key == "" {
			return fmt.Errorf("build dictionary: empty key for stem %q", r.Stem)
		}
		recs = append(recs, r)
	}
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Key < recs[j].Key })

	var (
		keys       []string
		entryIndex []uint32
		entries    []uint32
		pool       []string
		poolIDs    = make(map[string]uint32)
	)
	intern := func(s string) uint32 {
		if id, ok := poolIDs[s]; ok {
			return id
		}
		id := uint32(len(pool))
		poolIDs[s] = id
		pool = append(pool, s)
		return id
	}

	seen := make(map[Record]struct{})
	for _, r := range recs {
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		if len(keys) == 0 || keys[len(keys)-1] != r.Key {
			keys = append(keys, r.Key)
			entryIndex = append(entryIndex, uint32(len(entries)/2))
		}
		entries = append(entries, intern(r.Stem), intern(r.Tag))
	}
	entryIndex = append(entryIndex, uint32(len(entries)/2))

	keyIndex, keyBytes := packStrings(keys)
	poolIndex, poolBytes := packStrings(pool)

	h := header{
		Version:    formatVersion,
		KeyCount:   uint32(len(keys)),
		EntryCount: uint32(len(entries) / 2),
		PoolCount:  uint32(len(pool)),
	}
	copy(h.Magic[:], magic)
	off := int64(headerSize)
	h.KeyIndexOffset, off = off, off+int64(len(keyIndex))*4
	h.KeyBytesOffset, off = off, off+int64(len(keyBytes))
	h.EntryIndexOffset, off = off, off+int64(len(entryIndex))*4
	h.EntriesOffset, off = off, off+int64(len(entries))*4
	h.PoolIndexOffset, off = off, off+int64(len(poolIndex))*4
	h.PoolBytesOffset = off

	bw := bufio.NewWriter(w)
	for _, v := range []any{h, keyIndex, keyBytes, entryIndex, entries, poolIndex, poolBytes} {
		if err := binary.Write(bw, binary.LittleEndian, v); err != nil {
			return fmt.Errorf("build dictionary: %w", err)
		}
	}
	return bw.Flush()
}

// BuildFile writes records to path, replacing any existing file.
func BuildFile(path string, records []Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create dictionary: %w", err)
	}
	if err := Build(f, records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func packStrings(ss []string) ([]uint32, []byte) {
	index := make([]uint32, 0, len(ss)+1)
	var buf []byte
	for _, s := range ss {
		index = append(index, uint32(len(buf)))
		buf = append(buf, s...)
	}
	index = append(index, uint32(len(buf)))
	return index, buf
}

// SynthesisKey is the key under which a synthesis dictionary stores the
// forms of lemma carrying tag.
func SynthesisKey(lemma, tag string) string {
	return lemma + "|" + tag
}

// SynthesisRecords inverts tagging records (form → lemma, tag) into
// synthesis records (lemma|tag → form, tag).
func SynthesisRecords(records []Record) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		out = append(out, Record{Key: SynthesisKey(r.Stem, r.Tag), Stem: r.Key, Tag: r.Tag})
	}
	return out
}
