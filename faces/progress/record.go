package progress

import (
	"encoding/binary"
	"fmt"

	"quartz/watch"
)

// Range is the configured interval progress is measured over.
type Range struct {
	Start watch.DateTime
	End   watch.DateTime
}

// RecordSize is the stored record body: two packed calendar values,
// little-endian, no header.
const RecordSize = 8

// RecordName derives the store key for a face instance. Each instance
// keeps its own range under its own record.
func RecordName(index int) string {
	return fmt.Sprintf("prog%03d.u64", index)
}

// EncodeRange packs a range into its stored form.
func EncodeRange(r Range) []byte {
	p := make([]byte, RecordSize)
	binary.LittleEndian.PutUint32(p[0:4], r.Start.Pack())
	binary.LittleEndian.PutUint32(p[4:8], r.End.Pack())
	return p
}

// DecodeRange unpacks a stored record body. It reports false only on a
// size mismatch; field values are not revalidated.
func DecodeRange(p []byte) (Range, bool) {
	if len(p) != RecordSize {
		return Range{}, false
	}
	return Range{
		Start: watch.Unpack(binary.LittleEndian.Uint32(p[0:4])),
		End:   watch.Unpack(binary.LittleEndian.Uint32(p[4:8])),
	}, true
}
