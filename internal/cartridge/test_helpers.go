package cartridge

import "bytes"

// LoadFromBytes builds a Cartridge from an in-memory iNES image, for tests
// that assemble ROM bytes directly instead of reading a file. It is a thin
// wrapper over LoadFromReader so in-memory and on-disk ROMs go through the
// same header parsing and mapper construction path.
func LoadFromBytes(data []byte) (*Cartridge, error) {
	return LoadFromReader(bytes.NewReader(data))
}