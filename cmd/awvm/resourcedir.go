package main

import (
	"fmt"
	"os"
	"path/filepath"
)

// dirReader reads MEMLIST.BIN and BANK01..BANK0D straight off disk from
// a content directory; it is the one concrete host.ResourceReader this
// module carries, since the library itself never opens a file (spec.md
// §1 places the concrete filesystem sink out of scope for the VM core).
type dirReader struct {
	dir string
}

func newDirReader(dir string) *dirReader {
	return &dirReader{dir: dir}
}

func (r *dirReader) ReadResourceList() ([]byte, error) {
	return os.ReadFile(filepath.Join(r.dir, "MEMLIST.BIN"))
}

func (r *dirReader) ReadBank(bankID uint8) ([]byte, error) {
	name := fmt.Sprintf("BANK%02X", bankID)
	data, err := os.ReadFile(filepath.Join(r.dir, name))
	if err != nil {
		return nil, fmt.Errorf("reading bank file %s: %w", name, err)
	}
	return data, nil
}
