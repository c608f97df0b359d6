package contract

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestArgumentErrorKinds(t *testing.T) {
	err := TypeError("ResolveSelf", "ptr", "T_SELF", "T_STRING")
	require.ErrorIs(t, err, ErrType)
	require.NotErrorIs(t, err, ErrValue)
	require.EqualError(t, err, "ResolveSelf: argument ptr: wrong argument type: expected T_SELF, got T_STRING")

	err = ValueError("FindInFile", "fqn", "fully qualified name", `"foo"`)
	require.ErrorIs(t, err, ErrValue)

	var argErr *ArgumentError
	require.True(t, errors.As(err, &argErr))
	require.Equal(t, "fqn", argErr.Arg)
}
