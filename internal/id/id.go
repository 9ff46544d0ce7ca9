// Package id generates prefixed identifiers for library entities.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// ReelPrefix is the prefix used for saved reel ids.
const ReelPrefix = "reel"

// Generate creates a prefixed unique ID using NanoID,
// e.g. "reel-V1StGXR8_Z5jdHi6B-myT".
func Generate(prefix string) (string, error) {
	nid, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + nid, nil
}
