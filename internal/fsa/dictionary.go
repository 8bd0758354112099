package fsa

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"sort"

	"github.com/edsrzf/mmap-go"
)

// Dictionary is an immutable compiled dictionary.
type Dictionary struct {
	data []byte
	// mapped keeps the mapping alive; nil for dictionaries built from bytes.
	mapped mmap.MMap
	hdr    header
}

// Open maps the dictionary at path read-only and validates its structure.
func Open(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dictionary: %w", err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat dictionary %s: %w", path, err)
	}
	if st.Size() < int64(headerSize) {
		return nil, fmt.Errorf("%s: %w: file too small for header", path, ErrCorrupt)
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("mmap dictionary %s: %w", path, err)
	}
	d, err := newDictionary(m)
	if err != nil {
		_ = m.Unmap()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	d.mapped = m
	return d, nil
}

// FromBytes wraps an in-memory dictionary image. The slice must not be
// modified afterwards.
func FromBytes(b []byte) (*Dictionary, error) {
	return newDictionary(b)
}

func newDictionary(data []byte) (*Dictionary, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: file too small for header", ErrCorrupt)
	}
	var h header
	if err := binary.Read(bytes.NewReader(data[:headerSize]), binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("%w: read header: %v", ErrCorrupt, err)
	}
	if string(h.Magic[:]) != magic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrCorrupt, h.Magic[:])
	}
	if h.Version != formatVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorrupt, h.Version)
	}
	d := &Dictionary{data: data, hdr: h}
	if err := d.validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// validate checks every section bound and index once, so lookups never need
// to range-check.
func (d *Dictionary) validate() error {
	h := d.hdr
	size := int64(len(d.data))
	keys := int64(h.KeyCount)

	sections := []struct {
		name string
		off  int64
		len  int64
	}{
		{"key index", h.KeyIndexOffset, (keys + 1) * 4},
		{"entry index", h.EntryIndexOffset, (keys + 1) * 4},
		{"entries", h.EntriesOffset, int64(h.EntryCount) * 8},
		{"pool index", h.PoolIndexOffset, (int64(h.PoolCount) + 1) * 4},
	}
	for _, s := range sections {
		// s.off+s.len can overflow for hostile offsets.
		if s.off < int64(headerSize) || s.off > size || s.len > size-s.off {
			return fmt.Errorf("%w: %s out of bounds", ErrCorrupt, s.name)
		}
	}
	if h.KeyBytesOffset < int64(headerSize) || h.KeyBytesOffset > size ||
		h.PoolBytesOffset < int64(headerSize) || h.PoolBytesOffset > size {
		return fmt.Errorf("%w: byte section out of bounds", ErrCorrupt)
	}

	keyRoom := uint32(size - h.KeyBytesOffset)
	if err := checkMonotonic(d.data[h.KeyIndexOffset:], int(h.KeyCount)+1, keyRoom); err != nil {
		return fmt.Errorf("%w: key index: %v", ErrCorrupt, err)
	}
	if err := checkMonotonic(d.data[h.EntryIndexOffset:], int(h.KeyCount)+1, h.EntryCount); err != nil {
		return fmt.Errorf("%w: entry index: %v", ErrCorrupt, err)
	}
	poolRoom := uint32(size - h.PoolBytesOffset)
	if err := checkMonotonic(d.data[h.PoolIndexOffset:], int(h.PoolCount)+1, poolRoom); err != nil {
		return fmt.Errorf("%w: pool index: %v", ErrCorrupt, err)
	}
	for i := 0; i < int(h.EntryCount)*2; i++ {
		if d.u32(h.EntriesOffset, i) >= h.PoolCount {
			return fmt.Errorf("%w: entry %d references missing string", ErrCorrupt, i/2)
		}
	}
	for i := 1; i < int(h.KeyCount); i++ {
		if bytes.Compare(d.keyBytes(i-1), d.keyBytes(i)) >= 0 {
			return fmt.Errorf("%w: keys not sorted at %d", ErrCorrupt, i)
		}
	}
	return nil
}

func checkMonotonic(b []byte, n int, limit uint32) error {
	var prev uint32
	for i := 0; i < n; i++ {
		v := binary.LittleEndian.Uint32(b[i*4:])
		if v < prev {
			return fmt.Errorf("offset %d decreases", i)
		}
		if v > limit {
			return fmt.Errorf("offset %d exceeds section", i)
		}
		prev = v
	}
	return nil
}

func (d *Dictionary) u32(base int64, i int) uint32 {
	return binary.LittleEndian.Uint32(d.data[base+int64(i)*4:])
}

func (d *Dictionary) keyBytes(i int) []byte {
	start := d.hdr.KeyBytesOffset + int64(d.u32(d.hdr.KeyIndexOffset, i))
	end := d.hdr.KeyBytesOffset + int64(d.u32(d.hdr.KeyIndexOffset, i+1))
	return d.data[start:end]
}

func (d *Dictionary) poolString(id uint32) string {
	start := d.hdr.PoolBytesOffset + int64(d.u32(d.hdr.PoolIndexOffset, int(id)))
	end := d.hdr.PoolBytesOffset + int64(d.u32(d.hdr.PoolIndexOffset, int(id)+1))
	return string(d.data[start:end])
}

// Len returns the number of distinct keys.
func (d *Dictionary) Len() int { return int(d.hdr.KeyCount) }

// Key returns the i-th key in sorted order.
func (d *Dictionary) Key(i int) string { return string(d.keyBytes(i)) }

// find returns the index of key or -1.
func (d *Dictionary) find(key string) int {
	k := []byte(key)
	n := d.Len()
	i := sort.Search(n, func(i int) bool {
		return bytes.Compare(d.keyBytes(i), k) >= 0
	})
	if i < n && bytes.Equal(d.keyBytes(i), k) {
		return i
	}
	return -1
}

// Contains reports whether key is present.
func (d *Dictionary) Contains(key string) bool {
	return key != "" && d.find(key) >= 0
}

// Lookup returns the entries stored for key in file order, or nil.
func (d *Dictionary) Lookup(key string) []Entry {
	if key == "" {
		return nil
	}
	i := d.find(key)
	if i < 0 {
		return nil
	}
	first := d.u32(d.hdr.EntryIndexOffset, i)
	last := d.u32(d.hdr.EntryIndexOffset, i+1)
	out := make([]Entry, 0, last-first)
	for e := first; e < last; e++ {
		out = append(out, Entry{
			Stem: d.poolString(d.u32(d.hdr.EntriesOffset, int(e)*2)),
			Tag:  d.poolString(d.u32(d.hdr.EntriesOffset, int(e)*2+1)),
		})
	}
	return out
}

// Each calls fn for every key in sorted order until fn returns false.
func (d *Dictionary) Each(fn func(i int, key string) bool) {
	for i := 0; i < d.Len(); i++ {
		if !fn(i, d.Key(i)) {
			return
		}
	}
}

// Close releases the mapping. The dictionary must not be used afterwards.
func (d *Dictionary) Close() error {
	if d.mapped == nil {
		return nil
	}
	err := d.mapped.Unmap()
	d.mapped = nil
	d.data = nil
	return err
}
