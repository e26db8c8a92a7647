// Package nanoid generates compact URL-safe identifiers.
package nanoid

import (
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	lowercase      = "abcdefghijklmnopqrstuvwxyz"
	uppercase      = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	number         = "0123456789"
	numLowerUpper  = number + lowercase + uppercase
	defaultSize    = 16
	primaryKeySize = 11
)

func getSize(l ...int) int {
	size := defaultSize
	if len(l) > 0 {
		size = l[0]
	}
	return size
}

// Must generates an ID of optional length using the default alphabet.
func Must(l ...int) string {
	return gonanoid.Must(getSize(l...))
}

// String generates an alphanumeric ID of optional length.
func String(l ...int) string {
	return gonanoid.MustGenerate(numLowerUpper, getSize(l...))
}

// Lower generates a lowercase ID of optional length.
func Lower(l ...int) string {
	return gonanoid.MustGenerate(lowercase, getSize(l...))
}

// PrimaryKey returns a generator of primary-key-sized IDs.
func PrimaryKey(l ...int) func() string {
	size := primaryKeySize
	if len(l) > 0 {
		size = l[0]
	}
	return func() string {
		return gonanoid.MustGenerate(numLowerUpper, size)
	}
}

// IsPrimaryKey reports whether the value looks like a generated primary key.
func IsPrimaryKey(id string) bool {
	if len(id) != primaryKeySize {
		return false
	}
	for _, r := range id {
		if !strings.ContainsRune(numLowerUpper, r) {
			return false
		}
	}
	return true
}
