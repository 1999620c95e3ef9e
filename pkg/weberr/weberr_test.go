package weberr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponse_StatusPerKind(t *testing.T) {
	cases := []struct {
		err    error
		status int
		msg    string
	}{
		{NotFound("Bootcamp not found with id of %s", "b1"), http.StatusNotFound, "Bootcamp not found with id of b1"},
		{Unauthorized("nope"), http.StatusUnauthorized, "nope"},
		{Conflict("dup"), http.StatusBadRequest, "dup"},
		{Validation("bad field"), http.StatusBadRequest, "bad field"},
		{BadRequest("Please upload a file"), http.StatusBadRequest, "Please upload a file"},
		{Internal(errors.New("disk full"), "Problem with file upload"), http.StatusInternalServerError, "Problem with file upload"},
		{errors.New("boom"), http.StatusInternalServerError, "Server Error"},
	}
	for _, tc := range cases {
		status, msg := Response(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.msg, msg)
	}
}

func TestAs_ThroughWrapping(t *testing.T) {
	base := NotFound("missing")
	wrapped := fmt.Errorf("lookup: %w", base)

	we, ok := As(wrapped)
	require.True(t, ok)
	require.Equal(t, KindNotFound, we.Kind)
	require.True(t, Is(wrapped, KindNotFound))
	require.False(t, Is(wrapped, KindConflict))
}

func TestInternal_KeepsCauseOutOfMessage(t *testing.T) {
	cause := errors.New("connection reset")
	err := Internal(cause, "Problem with file upload")
	require.ErrorIs(t, err, cause)
	_, msg := Response(err)
	require.NotContains(t, msg, "connection reset")
}
