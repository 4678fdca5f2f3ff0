package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// GenerateJobID id cho bulk job
func GenerateJobID() string {
	return uuid.NewString()
}

// GenerateRequestID id ngắn (8 ký tự) gắn vào log của từng request
func GenerateRequestID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// Fingerprint sha256 hex của các phần, nối bằng ký tự 0x1f để tránh va chạm khi nối chuỗi
func Fingerprint(parts ...string) string {
	h := sha256.Sum256([]byte(strings.Join(parts, "\x1f")))
	return hex.EncodeToString(h[:])
}
