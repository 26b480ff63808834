// Package exiftest builds small EXIF-bearing TIFF and JPEG byte streams for
// tests.
package exiftest

import (
	"bytes"
	"encoding/binary"
	"sort"
)

// TIFF data types.
const (
	typeASCII    = 2
	typeShort    = 3
	typeLong     = 4
	typeRational = 5
)

// Tag ids used by the helpers below.
const (
	TagMake             = 0x010F
	TagModel            = 0x0110
	TagOrientation      = 0x0112
	TagDateTime         = 0x0132
	TagExifIFDPointer   = 0x8769
	TagGPSIFDPointer    = 0x8825
	TagDateTimeOriginal = 0x9003
	TagGPSLatitudeRef   = 0x0001
	TagGPSLatitude      = 0x0002
	TagGPSLongitudeRef  = 0x0003
	TagGPSLongitude     = 0x0004
)

// Entry is one IFD entry.
type Entry struct {
	Tag   uint16
	Type  uint16
	Count uint32
	Data  []byte
}

// ASCII returns a NUL-terminated string entry.
func ASCII(tag uint16, s string) Entry {
	data := append([]byte(s), 0)
	return Entry{Tag: tag, Type: typeASCII, Count: uint32(len(data)), Data: data}
}

// Short returns a single SHORT entry.
func Short(tag uint16, v uint16) Entry {
	data := make([]byte, 2)
	binary.LittleEndian.PutUint16(data, v)
	return Entry{Tag: tag, Type: typeShort, Count: 1, Data: data}
}

// Rationals returns a RATIONAL entry holding one value per num/den pair.
func Rationals(tag uint16, pairs ...[2]uint32) Entry {
	data := make([]byte, 0, 8*len(pairs))
	for _, p := range pairs {
		data = binary.LittleEndian.AppendUint32(data, p[0])
		data = binary.LittleEndian.AppendUint32(data, p[1])
	}
	return Entry{Tag: tag, Type: typeRational, Count: uint32(len(pairs)), Data: data}
}

// DMS returns a GPS coordinate entry for whole degrees, minutes and
// seconds.
func DMS(tag uint16, deg, mins, secs uint32) Entry {
	return Rationals(tag, [2]uint32{deg, 1}, [2]uint32{mins, 1}, [2]uint32{secs, 1})
}

// Image describes the directories of a synthetic image.
type Image struct {
	IFD0 []Entry
	Exif []Entry
	GPS  []Entry
}

// TIFF encodes the image as a little-endian TIFF stream. Sub-IFD pointers
// are added to IFD0 for non-empty Exif and GPS directories.
func TIFF(img Image) []byte {
	ifd0 := append([]Entry(nil), img.IFD0...)
	if len(img.Exif) > 0 {
		ifd0 = append(ifd0, Entry{Tag: TagExifIFDPointer, Type: typeLong, Count: 1, Data: make([]byte, 4)})
	}
	if len(img.GPS) > 0 {
		ifd0 = append(ifd0, Entry{Tag: TagGPSIFDPointer, Type: typeLong, Count: 1, Data: make([]byte, 4)})
	}

	dirs := [][]Entry{ifd0, img.Exif, img.GPS}
	offsets := make([]uint32, len(dirs))
	next := uint32(8)
	for i, d := range dirs {
		if len(d) == 0 {
			continue
		}
		offsets[i] = next
		next += dirSize(d)
	}

	for i := range ifd0 {
		switch ifd0[i].Tag {
		case TagExifIFDPointer:
			binary.LittleEndian.PutUint32(ifd0[i].Data, offsets[1])
		case TagGPSIFDPointer:
			binary.LittleEndian.PutUint32(ifd0[i].Data, offsets[2])
		}
	}

	var buf bytes.Buffer
	buf.WriteString("II")
	buf.Write(binary.LittleEndian.AppendUint16(nil, 42))
	buf.Write(binary.LittleEndian.AppendUint32(nil, 8))
	for i, d := range dirs {
		if len(d) == 0 {
			continue
		}
		writeDir(&buf, d, offsets[i])
	}
	return buf.Bytes()
}

// JPEG wraps the TIFF encoding of img in an APP1 EXIF segment of a minimal
// JPEG stream.
func JPEG(img Image) []byte {
	payload := append([]byte("Exif\x00\x00"), TIFF(img)...)

	var buf bytes.Buffer
	buf.Write([]byte{0xFF, 0xD8, 0xFF, 0xE1})
	buf.Write(binary.BigEndian.AppendUint16(nil, uint16(len(payload)+2)))
	buf.Write(payload)
	buf.Write([]byte{0xFF, 0xD9})
	return buf.Bytes()
}

// PlainJPEG returns a minimal JPEG stream with a comment segment and no
// EXIF data.
func PlainJPEG() []byte {
	comment := []byte("no metadata here")

	var buf bytes.Buffer
	buf.Write([]byte{0xFF, 0xD8, 0xFF, 0xFE})
	buf.Write(binary.BigEndian.AppendUint16(nil, uint16(len(comment)+2)))
	buf.Write(comment)
	buf.Write([]byte{0xFF, 0xD9})
	return buf.Bytes()
}

// CorruptJPEG returns a JPEG stream whose EXIF segment does not contain a
// valid TIFF structure.
func CorruptJPEG() []byte {
	payload := []byte("Exif\x00\x00garbage!")

	var buf bytes.Buffer
	buf.Write([]byte{0xFF, 0xD8, 0xFF, 0xE1})
	buf.Write(binary.BigEndian.AppendUint16(nil, uint16(len(payload)+2)))
	buf.Write(payload)
	buf.Write([]byte{0xFF, 0xD9})
	return buf.Bytes()
}

func dirSize(entries []Entry) uint32 {
	size := uint32(2 + 12*len(entries) + 4)
	for _, e := range entries {
		if len(e.Data) > 4 {
			size += padded(len(e.Data))
		}
	}
	return size
}

func padded(n int) uint32 {
	return uint32(n + n%2)
}

func writeDir(buf *bytes.Buffer, entries []Entry, offset uint32) {
	sorted := append([]Entry(nil), entries...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Tag < sorted[j].Tag })

	dataOffset := offset + uint32(2+12*len(sorted)+4)
	var data bytes.Buffer

	buf.Write(binary.LittleEndian.AppendUint16(nil, uint16(len(sorted))))
	for _, e := range sorted {
		buf.Write(binary.LittleEndian.AppendUint16(nil, e.Tag))
		buf.Write(binary.LittleEndian.AppendUint16(nil, e.Type))
		buf.Write(binary.LittleEndian.AppendUint32(nil, e.Count))
		if len(e.Data) <= 4 {
			inline := make([]byte, 4)
			copy(inline, e.Data)
			buf.Write(inline)
			continue
		}
		buf.Write(binary.LittleEndian.AppendUint32(nil, dataOffset+uint32(data.Len())))
		data.Write(e.Data)
		if len(e.Data)%2 == 1 {
			data.WriteByte(0)
		}
	}
	buf.Write(make([]byte, 4))
	buf.Write(data.Bytes())
}

// Camera returns an image with make, model and date time tags.
func Camera(maker, model, dateTime string) Image {
	img := Image{
		IFD0: []Entry{
			ASCII(TagMake, maker),
			ASCII(TagModel, model),
		},
	}
	if dateTime != "" {
		img.IFD0 = append(img.IFD0, ASCII(TagDateTime, dateTime))
	}
	return img
}

// WithGPS adds latitude and longitude entries to img.
func WithGPS(img Image, lat [3]uint32, latRef string, lon [3]uint32, lonRef string) Image {
	img.GPS = append(img.GPS,
		ASCII(TagGPSLatitudeRef, latRef),
		DMS(TagGPSLatitude, lat[0], lat[1], lat[2]),
		ASCII(TagGPSLongitudeRef, lonRef),
		DMS(TagGPSLongitude, lon[0], lon[1], lon[2]),
	)
	return img
}
