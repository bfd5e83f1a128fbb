package handlerreg

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateUnitTestHandlerSucceeds(t *testing.T) {
	r := New()
	require.NoError(t, r.Create("h1", URNUnitTest))

	factory, ok := r.Lookup("h1")
	require.True(t, ok)
	require.NotNil(t, factory)
}

func TestCreateAlwaysBadIsRejected(t *testing.T) {
	r := New()
	err := r.Create("bad", URNAlwaysBad)
	require.Error(t, err)

	_, ok := r.Lookup("bad")
	require.False(t, ok)
}

func TestCreateUnknownURNIsRejected(t *testing.T) {
	r := New()
	err := r.Create("mystery", "urn:weaver-proxy:does-not-exist")
	require.Error(t, err)
}

func TestDestroyRemovesRegistration(t *testing.T) {
	r := New()
	require.NoError(t, r.Create("h1", URNUnitTest))
	r.Destroy("h1")

	_, ok := r.Lookup("h1")
	require.False(t, ok)
}

func TestLookupUnknownNameFails(t *testing.T) {
	r := New()
	_, ok := r.Lookup("nope")
	require.False(t, ok)
}
