package validate

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `json:"name" validate:"required,max=5"`
	Email string `json:"email" validate:"omitempty,email"`
}

func TestCheck(t *testing.T) {
	require.NoError(t, Check(sample{Name: "ok"}))

	err := Check(sample{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "name")
	require.Contains(t, err.Error(), "required")

	err = Check(sample{Name: "ok", Email: "nope"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "email")
}

func TestGenerateAndCheckID(t *testing.T) {
	id := GenerateID()
	require.NoError(t, CheckID(id))
	require.Error(t, CheckID("not-an-id"))
}
