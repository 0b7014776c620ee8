package ntuple

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
	"os"

	"github.com/pkg/errors"
)

// Save writes the weights. The format is the total entry count as a little endian uint32,
// followed by the outer, small and large tables as written by Table.WriteTo.
func (n *Network) Save(w io.Writer) error {
	n.RLock()
	defer n.RUnlock()
	return writeTables(w, n.tables[:])
}

// Load replaces the weights with those read from r. The tables must match TableSize.
func (n *Network) Load(r io.Reader) error {
	tables, err := readTables(r, numRings)
	if err != nil {
		return err
	}
	for i, t := range tables {
		if t.Len() != TableSize {
			return errors.Errorf("%v table has %d entries, expected %d", Ring(i), t.Len(), TableSize)
		}
	}
	n.Lock()
	copy(n.tables[:], tables)
	n.Unlock()
	return nil
}

// SaveFile saves the weights into filename.
func (n *Network) SaveFile(filename string) error {
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return errors.WithStack(err)
	}
	return n.saveTo(f)
}

// saveTo writes the weights through a buffer and closes wc, reporting a failed Close.
func (n *Network) saveTo(wc io.WriteCloser) error {
	bw := bufio.NewWriter(wc)
	if err := n.Save(bw); err != nil {
		wc.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		wc.Close()
		return errors.WithStack(err)
	}
	return errors.WithStack(wc.Close())
}

// LoadFile loads the weights from filename.
func (n *Network) LoadFile(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return errors.WithStack(err)
	}
	defer f.Close()
	return n.Load(bufio.NewReader(f))
}

func writeTables(w io.Writer, tables []*Table) error {
	var total uint64
	for _, t := range tables {
		total += uint64(t.Len())
	}
	if total > math.MaxUint32 {
		return errors.Errorf("%d entries do not fit the header", total)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(total)); err != nil {
		return errors.WithStack(err)
	}
	for _, t := range tables {
		if _, err := t.WriteTo(w); err != nil {
			return err
		}
	}
	return nil
}

func readTables(r io.Reader, count int) ([]*Table, error) {
	var total uint32
	if err := binary.Read(r, binary.LittleEndian, &total); err != nil {
		return nil, errors.Wrap(err, "reading header")
	}
	tables := make([]*Table, count)
	var sum uint64
	for i := range tables {
		tables[i] = new(Table)
		if _, err := tables[i].ReadFrom(r); err != nil {
			return nil, errors.Wrapf(err, "reading table %d", i)
		}
		sum += uint64(tables[i].Len())
	}
	if sum != uint64(total) {
		return nil, errors.Errorf("header announces %d entries, tables hold %d", total, sum)
	}
	return tables, nil
}
