package flat

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/avicola-labs/avisearch-cli/internal/core/domain"
)

// vectors.bin layout: magic, version, dims, count as little-endian
// uint32, then count*dims float32 bits.
const (
	fileMagic   = 0x41565631 // "AVV1"
	fileVersion = 1
)

// Save writes the index to path.
func (idx *Index) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create index file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	header := []uint32{fileMagic, fileVersion, uint32(idx.dims), uint32(idx.Len())}
	for _, v := range header {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return fmt.Errorf("write index header: %w", err)
		}
	}

	buf := make([]byte, 4)
	for _, v := range idx.data {
		binary.LittleEndian.PutUint32(buf, math.Float32bits(v))
		if _, err := w.Write(buf); err != nil {
			return fmt.Errorf("write index data: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush index file: %w", err)
	}
	return f.Sync()
}

// Load reads an index previously written by Save.
func Load(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open index file: %w", err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	var magic, version, dims, count uint32
	for _, dst := range []*uint32{&magic, &version, &dims, &count} {
		if err := binary.Read(r, binary.LittleEndian, dst); err != nil {
			return nil, fmt.Errorf("read index header: %w", err)
		}
	}
	if magic != fileMagic {
		return nil, fmt.Errorf("%w: %s is not an index file", domain.ErrInvalidInput, path)
	}
	if version != fileVersion {
		return nil, fmt.Errorf("%w: unsupported index version %d", domain.ErrInvalidInput, version)
	}
	if dims == 0 {
		return nil, fmt.Errorf("%w: index file declares zero dimensions", domain.ErrInvalidInput)
	}

	data := make([]float32, int(count)*int(dims))
	buf := make([]byte, 4)
	for i := range data {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("read index data: %w", err)
		}
		data[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf))
	}

	return &Index{dims: int(dims), data: data}, nil
}
