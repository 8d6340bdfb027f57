package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey returns "namespace:<digest>" where the digest covers the JSON
// encoding of parts. Options structs are encoded field by field, so adding a
// field changes every key that carries it.
func hashKey(namespace string, parts ...any) string {
	data, err := json.Marshal(parts)
	if err != nil {
		// NaN option values cannot be encoded as JSON.
		data = []byte(fmt.Sprintf("%#v", parts))
	}
	return namespace + ":" + Hash(data)
}

// Hash is the hex SHA-256 of data. Marker sets and scan keys are reduced to
// it before they become part of another key.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
