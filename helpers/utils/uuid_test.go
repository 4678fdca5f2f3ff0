package utils

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateJobID(t *testing.T) {
	a, b := GenerateJobID(), GenerateJobID()
	assert.NotEqual(t, a, b)

	_, err := uuid.Parse(a)
	require.NoError(t, err)
}

func TestGenerateRequestID(t *testing.T) {
	assert.Len(t, GenerateRequestID(), 8)
}

func TestFingerprint(t *testing.T) {
	assert.Equal(t, Fingerprint("v1", "false", "부산"), Fingerprint("v1", "false", "부산"))
	assert.NotEqual(t, Fingerprint("v1", "false", "부산"), Fingerprint("v1", "true", "부산"))
	assert.NotEqual(t, Fingerprint("ab", "c"), Fingerprint("a", "bc"))
	assert.Len(t, Fingerprint("x"), 64)
}
