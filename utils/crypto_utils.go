package utils

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
)

// CalculateMD5 returns the 32-character lowercase hex MD5 of the input.
func CalculateMD5(input string) string {
	hasher := md5.New()
	hasher.Write([]byte(input))
	return hex.EncodeToString(hasher.Sum(nil))
}

// HashJSON hashes the JSON encoding of v. Used to build cache keys from
// preference structs so equal preferences map to the same key.
func HashJSON(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return CalculateMD5("")
	}
	return CalculateMD5(string(b))
}
