package weaverfilter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/weaver-proxy/weaverfilter/internal/handlerreg"
)

func TestErrorMessageIncludesOpAndMsg(t *testing.T) {
	err := NewError("CreateHandler", ErrCodeUnknownURN, "urn not recognized")
	require.Equal(t, "weaverfilter: CreateHandler: urn not recognized", err.Error())
}

func TestErrorMessageFallsBackToCode(t *testing.T) {
	err := NewError("CreateHandler", ErrCodeNoSuchChunk, "")
	require.Equal(t, "weaverfilter: CreateHandler: no such chunk", err.Error())
}

func TestErrorIsMatchesByCode(t *testing.T) {
	err := NewError("op1", ErrCodeNoSuchTransaction, "gone")
	require.True(t, errors.Is(err, ErrNoSuchTransaction))
	require.False(t, errors.Is(err, ErrNoSuchChunk))
}

func TestWrapErrorPreservesStructuredError(t *testing.T) {
	inner := NewError("inner-op", ErrCodeNoSuchChunk, "chunk 7 gone")
	wrapped := WrapError("outer-op", inner)
	require.Equal(t, "outer-op", wrapped.Op)
	require.Equal(t, ErrCodeNoSuchChunk, wrapped.Code)
}

func TestWrapErrorNilIsNil(t *testing.T) {
	require.Nil(t, WrapError("op", nil))
}

func TestWrapErrorMapsUnknownURNSentinel(t *testing.T) {
	wrapped := WrapError("CreateHandler", handlerreg.ErrUnknownURN)
	require.Equal(t, ErrCodeUnknownURN, wrapped.Code)
}

func TestWrapErrorDefaultsToInternal(t *testing.T) {
	wrapped := WrapError("op", errors.New("boom"))
	require.Equal(t, ErrCodeInternal, wrapped.Code)
}

func TestIsCode(t *testing.T) {
	err := NewError("op", ErrCodeNoSuchHandler, "missing")
	require.True(t, IsCode(err, ErrCodeNoSuchHandler))
	require.False(t, IsCode(err, ErrCodeNoSuchChunk))
	require.False(t, IsCode(nil, ErrCodeNoSuchHandler))
}
