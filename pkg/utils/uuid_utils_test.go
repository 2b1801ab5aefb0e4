package utils

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestGenerateUUIDv7(t *testing.T) {
	id := GenerateUUIDv7()
	assert.NotEqual(t, uuid.Nil, id)
	assert.Equal(t, uuid.Version(7), id.Version())
}

func TestGenerateUUIDv7Unique(t *testing.T) {
	seen := map[uuid.UUID]bool{}
	for i := 0; i < 100; i++ {
		id := GenerateUUIDv7()
		assert.False(t, seen[id])
		seen[id] = true
	}
}
