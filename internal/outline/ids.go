package outline

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"strings"

	"treedo-cli/internal/model"
)

// newRandomNodeID returns node-<suffix> where suffix is 8 chars of base32
// (lowercase, no padding). 8 chars base32 ~= 40 bits of space.
func newRandomNodeID() (string, error) {
	var b [5]byte // 40 bits -> 8 base32 chars
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	enc := base32.StdEncoding.WithPadding(base32.NoPadding)
	return "node-" + strings.ToLower(enc.EncodeToString(b[:])), nil
}

// NewNodeID returns a fresh id that does not collide with any node in the
// forest. Falls back to a sequential suffix if crypto/rand fails.
func NewNodeID(forest []model.Node) string {
	for i := 0; i < 10; i++ {
		id, err := newRandomNodeID()
		if err != nil {
			break
		}
		if !ContainsID(forest, id) {
			return id
		}
	}
	// Extremely unlikely fallback.
	n := model.CountNodes(forest)
	for {
		n++
		id := fmt.Sprintf("node-%d", n)
		if !ContainsID(forest, id) {
			return id
		}
	}
}
