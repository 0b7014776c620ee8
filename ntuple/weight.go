package ntuple

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/pkg/errors"
)

// Entry is one learnt pattern weight.
type Entry struct {
	Value  float32
	Visits uint32
}

const (
	pageBits  = 14
	pageSize  = 1 << pageBits
	pageMask  = pageSize - 1
	entrySize = 8
)

// Table is a weight table of a single ring. Entries live in pages that are allocated on
// first write, so an untrained table costs almost nothing. Absent entries read as zero.
type Table struct {
	size      int
	pages     [][]Entry
	allocated int
}

// NewTable creates an empty table of the given number of entries.
func NewTable(size int) *Table {
	return &Table{
		size:  size,
		pages: make([][]Entry, (size+pageSize-1)/pageSize),
	}
}

// Len is the number of entries in the table.
func (t *Table) Len() int { return t.size }

// Allocated is the number of pages that have been written to.
func (t *Table) Allocated() int { return t.allocated }

// Get returns the entry at i.
func (t *Table) Get(i int) Entry {
	p := t.pages[i>>pageBits]
	if p == nil {
		return Entry{}
	}
	return p[i&pageMask]
}

func (t *Table) pageLen(page int) int {
	if rem := t.size - page*pageSize; rem < pageSize {
		return rem
	}
	return pageSize
}

func (t *Table) entry(i int) *Entry {
	page := i >> pageBits
	if t.pages[page] == nil {
		t.pages[page] = make([]Entry, t.pageLen(page))
		t.allocated++
	}
	return &t.pages[page][i&pageMask]
}

// Set overwrites the entry at i.
func (t *Table) Set(i int, e Entry) { *t.entry(i) = e }

// Update moves the entry at i toward target by alpha and counts the visit.
func (t *Table) Update(i int, target, alpha float32) {
	e := t.entry(i)
	e.Value += alpha * (target - e.Value)
	e.Visits++
}

// WriteTo writes the entry count as a little endian uint64 followed by every entry as a
// float32 value and a uint32 visit count.
func (t *Table) WriteTo(w io.Writer) (n int64, err error) {
	if err = binary.Write(w, binary.LittleEndian, uint64(t.size)); err != nil {
		return n, errors.WithStack(err)
	}
	n += 8

	buf := make([]byte, pageSize*entrySize)
	for i, p := range t.pages {
		l := t.pageLen(i)
		b := buf[:l*entrySize]
		for j := range b {
			b[j] = 0
		}
		for j, e := range p {
			binary.LittleEndian.PutUint32(b[j*entrySize:], math.Float32bits(e.Value))
			binary.LittleEndian.PutUint32(b[j*entrySize+4:], e.Visits)
		}
		m, err := w.Write(b)
		n += int64(m)
		if err != nil {
			return n, errors.WithStack(err)
		}
	}
	return n, nil
}

// ReadFrom replaces the contents of the table with what was written by WriteTo.
// Pages holding only zero entries stay unallocated.
func (t *Table) ReadFrom(r io.Reader) (n int64, err error) {
	var size uint64
	if err = binary.Read(r, binary.LittleEndian, &size); err != nil {
		return n, errors.Wrap(err, "reading table size")
	}
	n += 8
	if size > math.MaxInt32*entrySize {
		return n, errors.Errorf("table size %d is implausible", size)
	}
	*t = *NewTable(int(size))

	buf := make([]byte, pageSize*entrySize)
	for i := range t.pages {
		b := buf[:t.pageLen(i)*entrySize]
		m, err := io.ReadFull(r, b)
		n += int64(m)
		if err != nil {
			return n, errors.Wrapf(err, "reading page %d", i)
		}
		if allZero(b) {
			continue
		}
		page := make([]Entry, len(b)/entrySize)
		for j := range page {
			page[j].Value = math.Float32frombits(binary.LittleEndian.Uint32(b[j*entrySize:]))
			page[j].Visits = binary.LittleEndian.Uint32(b[j*entrySize+4:])
		}
		t.pages[i] = page
		t.allocated++
	}
	return n, nil
}

func allZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}
