package recorder

import (
	"crypto/sha256"
	"encoding/hex"
)

// MaxHashSize caps how many bytes of a large question are hashed.
const MaxHashSize = 1024 * 1024 // 1MB

// HashContent returns the hex-encoded SHA-256 of content, hashing at
// most MaxHashSize bytes. Empty content hashes to the empty string.
func HashContent(content []byte) string {
	if len(content) == 0 {
		return ""
	}
	if len(content) > MaxHashSize {
		content = content[:MaxHashSize]
	}
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// HashString hashes a string with HashContent.
func HashString(content string) string {
	return HashContent([]byte(content))
}
