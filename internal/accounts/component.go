// Package accounts defines the storage-slot layouts of the protocol's
// on-chain accounts: the lending pool, the price oracle, and user
// lending accounts. A layout plus its compiled MASM library forms an
// account component.
package accounts

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lendfi/lendclient/internal/assembler"
)

// Word is one field-element word of account storage, four 64-bit
// elements wide.
type Word [4]uint64

// Component pairs compiled account code with its initial storage
// layout. Slots are positional: slot i of the account is Slots[i].
type Component struct {
	Library assembler.Library
	Slots   []Word
}

// LoadComponentLibrary reads a compiled library artifact for an account
// component from the assets directory produced by the build pipeline.
func LoadComponentLibrary(assetsDir, name string) (assembler.Library, error) {
	path := filepath.Join(assetsDir, name+assembler.LibraryExtension)
	data, err := os.ReadFile(path)
	if err != nil {
		return assembler.Library{}, fmt.Errorf("reading component library %s: %w", path, err)
	}
	lib, err := assembler.DecodeLibrary(data)
	if err != nil {
		return assembler.Library{}, fmt.Errorf("decoding component library %s: %w", path, err)
	}
	return lib, nil
}

// IDWord derives a storage word from an account ID string. Account IDs
// are opaque to the client, so the word is a stable digest of the ID
// rather than a parsed value. The zero ID maps to the zero word.
func IDWord(id string) Word {
	if id == "" {
		return Word{}
	}
	sum := sha256.Sum256([]byte(id))
	var w Word
	for i := range w {
		w[i] = binary.BigEndian.Uint64(sum[i*8:])
	}
	return w
}
