package core

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Domain-specific hash types
type (
	SourceHash Hash
	FilterHash Hash
)

func NewSourceHash(data []byte) SourceHash { return SourceHash(NewHash(data)) }

func (h SourceHash) String() string { return Hash(h).String() }
func (h FilterHash) String() string { return Hash(h).String() }

// ComputeFilterHash fingerprints a set of per-column allowed values.
// Value order within a column does not affect the result.
func ComputeFilterHash(filters map[string][]string) FilterHash {
	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var data strings.Builder
	for _, key := range keys {
		values := append([]string(nil), filters[key]...)
		if len(values) == 0 {
			continue
		}
		sort.Strings(values)
		data.WriteString(key)
		data.WriteByte(0)
		for _, v := range values {
			data.WriteString(v)
			data.WriteByte(0)
		}
		data.WriteByte(1)
	}

	return FilterHash(NewHash([]byte(data.String())))
}
