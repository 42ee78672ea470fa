package shell

import (
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStarted(t *testing.T) {
	assert.True(t, Started(nil))
	assert.True(t, Started(&exec.ExitError{}))
	assert.False(t, Started(&exec.Error{Name: "wx-config", Err: exec.ErrNotFound}))
	assert.False(t, Started(errors.New("boom")))
}

func TestFake(t *testing.T) {
	f := &Fake{
		Outputs: map[string]string{"wx-config --libs": "-lwx_baseu-3.2"},
		Errors:  map[string]error{"ar rcs x.a": errors.New("disk full")},
	}

	out, err := f.Output("wx-config", "--libs")
	require.NoError(t, err)
	assert.Equal(t, "-lwx_baseu-3.2", string(out))

	_, err = f.Output("wx-config", "--cxxflags")
	assert.False(t, Started(err))

	assert.EqualError(t, f.Run("ar", "rcs", "x.a"), "disk full")
	assert.NoError(t, f.Run("c++", "-c", "a.cpp"))

	assert.Equal(t, 2, f.Count("wx-config"))
	assert.Equal(t, 1, f.Count("c++"))
}
