package model

import (
	"crypto/rand"
	"encoding/base32"
	"strings"
)

// newItemID returns item-<suffix> where suffix is 8 chars of base32 (lowercase, no padding).
// 8 chars base32 ~= 40 bits of space.
func newItemID() string {
	var b [5]byte // 40 bits -> 8 base32 chars
	// crypto/rand.Read never returns an error as of Go 1.24.
	_, _ = rand.Read(b[:])
	enc := base32.StdEncoding.WithPadding(base32.NoPadding)
	return "item-" + strings.ToLower(enc.EncodeToString(b[:]))
}

func uniqueItemID(seen map[string]bool) string {
	for {
		id := newItemID()
		if !seen[id] {
			seen[id] = true
			return id
		}
	}
}
