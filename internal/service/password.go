package service

import (
	"crypto/sha256"
	"encoding/hex"
)

// EncodePassword derives the stored representation of a plaintext
// password: the SHA-256 digest of its UTF-8 bytes as lowercase hex.
//
// The scheme is deliberately unsalted and uniterated so that values
// remain comparable with credentials already stored under it; identical
// passwords therefore encode to identical values across users. Do not
// change the digest without a migration for existing records.
func EncodePassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
