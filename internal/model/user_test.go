package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetPassword_StoresHashNotPlaintext(t *testing.T) {
	u := &User{}
	require.NoError(t, u.SetPassword("hunter2"))

	assert.NotEqual(t, "hunter2", u.Password)
	assert.True(t, u.CheckPassword("hunter2"))
	assert.False(t, u.CheckPassword("wrong"))
}
