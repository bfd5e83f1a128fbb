package chunkstore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInternAndGetCopy(t *testing.T) {
	s := New()

	id := s.Intern([]byte("Hello! I am the server!"))
	require.NotZero(t, id)

	require.EqualValues(t, len("Hello! I am the server!"), s.GetLength(id))
	require.Equal(t, "Hello! I am the server!", string(s.GetCopy(id)))
}

func TestGetCopyReturnsIndependentBuffer(t *testing.T) {
	s := New()
	id := s.Intern([]byte("mutate me"))

	copy1 := s.GetCopy(id)
	copy1[0] = 'X'

	copy2 := s.GetCopy(id)
	require.Equal(t, "mutate me", string(copy2))
}

func TestUnknownIDReturnsZeroValues(t *testing.T) {
	s := New()
	require.Nil(t, s.GetCopy(999))
	require.Zero(t, s.GetLength(999))
}

func TestReleaseDropsBuffer(t *testing.T) {
	s := New()
	id := s.Intern([]byte("data"))
	require.Equal(t, 1, s.Len())

	s.Release(id)
	require.Equal(t, 0, s.Len())
	require.Nil(t, s.GetCopy(id))
}

func TestIDsAreMonotonicAndNeverZero(t *testing.T) {
	s := New()
	seen := make(map[uint32]bool)
	var prev uint32
	for i := 0; i < 1000; i++ {
		id := s.Intern([]byte{byte(i)})
		require.NotZero(t, id)
		require.Greater(t, id, prev, "chunk id %d not above previous %d", id, prev)
		require.False(t, seen[id], "chunk id %d reused while live", id)
		seen[id] = true
		prev = id
	}
}
