package bfilter

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
)

const bitsetFileName = "bitset.bf"

// magic identifies a filtmgr bitset file; version allows the header shape
// to change without breaking older files silently.
const (
	fileMagic   uint32 = 0x424c4d31 // "BLM1"
	fileVersion uint8  = 1
)

// Compression tier thresholds and flags, adapted unchanged from the
// three-tier adaptive scheme (raw / snappy / zstd) used elsewhere in the
// retrieved corpus for variable-sized payload compression.
const (
	compressionThresholdSmall  = 1024
	compressionThresholdMedium = 10 * 1024

	flagUncompressed = byte(0)
	flagSnappy       = byte(1)
	flagZstd         = byte(2)
)

var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic(err)
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic(err)
	}
}

// saveBitset serializes b's bit array via bloom.BloomFilter's own WriteTo
// encoding and writes a magic/version/compression-flag header followed by
// the adaptively compressed payload to path.
func saveBitset(path string, b *bloom.BloomFilter) error {
	var buf bytes.Buffer
	if _, err := b.WriteTo(&buf); err != nil {
		return fmt.Errorf("marshal bitset: %w", err)
	}
	raw := buf.Bytes()

	flag, payload := compress(raw)

	var header bytes.Buffer
	binary.Write(&header, binary.BigEndian, fileMagic)
	header.WriteByte(fileVersion)
	header.WriteByte(flag)
	binary.Write(&header, binary.BigEndian, uint64(len(raw)))

	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create temp bitset file: %w", err)
	}
	if _, err := f.Write(header.Bytes()); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write bitset header: %w", err)
	}
	if _, err := f.Write(payload); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write bitset payload: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close temp bitset file: %w", err)
	}
	return os.Rename(tmp, path)
}

// loadBitset reads path back into a fresh bloom.BloomFilter. Returns an
// os.IsNotExist-compatible error when the file is absent, so Init can
// distinguish "never flushed" from a genuine I/O failure.
func loadBitset(path string) (*bloom.BloomFilter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) < 14 {
		return nil, fmt.Errorf("bitset file %s too short: %d bytes", path, len(data))
	}

	magic := binary.BigEndian.Uint32(data[0:4])
	if magic != fileMagic {
		return nil, fmt.Errorf("bitset file %s: bad magic %x", path, magic)
	}
	flag := data[5]
	rawLen := binary.BigEndian.Uint64(data[6:14])
	payload := data[14:]

	raw, err := decompress(flag, payload, int(rawLen))
	if err != nil {
		return nil, fmt.Errorf("decompress bitset %s: %w", path, err)
	}

	b := &bloom.BloomFilter{}
	if _, err := b.ReadFrom(bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("unmarshal bitset %s: %w", path, err)
	}
	return b, nil
}

// compress picks raw/snappy/zstd by payload size, falling back to raw
// whenever compression doesn't actually shrink the payload.
func compress(data []byte) (byte, []byte) {
	n := len(data)

	if n < compressionThresholdSmall {
		return flagUncompressed, data
	}

	if n < compressionThresholdMedium {
		compressed := snappy.Encode(nil, data)
		if len(compressed) < n {
			return flagSnappy, compressed
		}
		return flagUncompressed, data
	}

	compressed := zstdEncoder.EncodeAll(data, nil)
	if len(compressed) < n {
		return flagZstd, compressed
	}
	return flagUncompressed, data
}

func decompress(flag byte, payload []byte, rawLen int) ([]byte, error) {
	switch flag {
	case flagUncompressed:
		return payload, nil
	case flagSnappy:
		return snappy.Decode(make([]byte, 0, rawLen), payload)
	case flagZstd:
		return zstdDecoder.DecodeAll(payload, make([]byte, 0, rawLen))
	default:
		return nil, fmt.Errorf("unknown compression flag %d", flag)
	}
}
