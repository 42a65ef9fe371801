// Package manifest describes the collection of datasets currently published
// for a category, and derives the fingerprint the result cache validates
// entries against.
//
// The manifest is owned upstream; this package only reads it. Its single
// invariant: any addition, removal, reorder, filename change, or timestamp
// change yields a different fingerprint, so a cached result can never
// silently outlive the data it was computed from.
package manifest

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"time"
)

// Entry identifies one published dataset by its number and source filename.
type Entry struct {
	Number   int    `json:"number"`
	Filename string `json:"filename"`
}

// Manifest is the ordered list of datasets for a category plus one
// collection-wide last-modified timestamp.
type Manifest struct {
	LastUpdated time.Time `json:"lastUpdated"`
	Datasets    []Entry   `json:"datasets"`
}

// Fingerprint returns a hex SHA-256 over a canonical encoding of the
// manifest: entry index, dataset number, filename length, filename bytes,
// then the unix-nano timestamp. Length-prefixing the filenames keeps the
// encoding injective, so two different manifests never collide by
// concatenation.
func (m *Manifest) Fingerprint() string {
	h := sha256.New()

	var buf [8]byte
	writeUint64 := func(v uint64) {
		binary.BigEndian.PutUint64(buf[:], v)
		h.Write(buf[:])
	}

	writeUint64(uint64(len(m.Datasets)))
	for i, d := range m.Datasets {
		writeUint64(uint64(i))
		writeUint64(uint64(int64(d.Number)))
		writeUint64(uint64(len(d.Filename)))
		h.Write([]byte(d.Filename))
	}
	writeUint64(uint64(m.LastUpdated.UnixNano()))

	return hex.EncodeToString(h.Sum(nil))
}
