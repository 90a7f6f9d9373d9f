package tree

import (
	"encoding/binary"
	"encoding/hex"

	"lukechampine.com/blake3"
)

// Fingerprint returns a BLAKE3 digest of the tree's shape and labels.
// Two trees have the same fingerprint exactly when Equal reports true
// (up to hash collisions). The empty tree has a fixed fingerprint.
func (t *Tree) Fingerprint() string {
	hasher := blake3.New(32, nil)
	var buf [binary.MaxVarintLen64]byte

	// Preorder with label length and child count is an unambiguous encoding.
	for id := range t.PreOrder() {
		label := t.Label(id)
		n := binary.PutUvarint(buf[:], uint64(len(label)))
		_, _ = hasher.Write(buf[:n])
		_, _ = hasher.Write([]byte(label))
		n = binary.PutUvarint(buf[:], uint64(len(t.Children(id))))
		_, _ = hasher.Write(buf[:n])
	}
	return hex.EncodeToString(hasher.Sum(nil))
}
