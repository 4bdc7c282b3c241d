package corecode

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCode_String(t *testing.T) {
	assert.Equal(t, "Success", Success.String())
	assert.Equal(t, "TransErr", TransErr.String())
	assert.Equal(t, "Unknown", Code(-1).String())
}

func TestNew(t *testing.T) {
	require.NoError(t, New(Success))

	err := New(IllStateId)
	require.Error(t, err)
	assert.Equal(t, "corecode: IllStateId", err.Error())

	var ce *Err
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, IllStateId, ce.Code)
}
