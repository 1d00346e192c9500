package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestError_Error(t *testing.T) {
	err := Wrap(KindDecode, "decode", "failed to decode image", errors.New("unexpected EOF"))
	require.EqualError(t, err, "[decode:decode] failed to decode image: unexpected EOF")

	plain := New(KindValidation, "validate", "no file uploaded")
	require.EqualError(t, plain, "[validation:validate] no file uploaded")
}

func TestWrap_KeepsInnermostKind(t *testing.T) {
	inner := New(KindValidation, "spool", "file too large")
	outer := Wrap(KindInternal, "upload", "spool upload", fmt.Errorf("copy: %w", inner))

	require.True(t, IsKind(outer, KindValidation))
	require.Equal(t, "file too large", Message(outer))
}

func TestWrap_Nil(t *testing.T) {
	require.NoError(t, Wrap(KindInternal, "op", "msg", nil))
}

func TestKindOf_Unclassified(t *testing.T) {
	require.Equal(t, KindInternal, KindOf(errors.New("boom")))
	require.False(t, IsKind(nil, KindInternal))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("root")
	err := Wrap(KindInternal, "encode", "encode jpeg", cause)
	require.ErrorIs(t, err, cause)
}
