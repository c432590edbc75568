package util

import (
	"encoding/json"

	"github.com/google/uuid"
)

// namespace scopes the name-based UUIDs produced by HashUUID.
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/jpfielding/isp.go"))

// HashUUID derives a stable name-based UUID from the JSON form of value, so
// equal configurations always map to the same id. It returns "" when value
// cannot be marshaled.
func HashUUID(value any) string {
	raw, err := json.Marshal(value)
	if err != nil {
		return ""
	}
	return uuid.NewMD5(namespace, raw).String()
}

// NewID returns a random UUID for tagging frames and runs.
func NewID() string {
	return uuid.NewString()
}
