package controller

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	m "kickback.dev/pkg/kickback/internal/model"
)

func TestNewUI(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetOut(&bytes.Buffer{})

	assert.IsType(t, &TUI{}, NewUI(cmd, true))
	assert.IsType(t, &SimpleUI{}, NewUI(cmd, false))
}

func TestIsTTY(t *testing.T) {
	assert.False(t, IsTTY(&bytes.Buffer{}))

	file, err := os.Create(filepath.Join(t.TempDir(), "out"))
	require.NoError(t, err)
	defer file.Close()

	assert.False(t, IsTTY(file))

	require.NoError(t, file.Close())
	assert.False(t, IsTTY(file))
}

func TestIsTTY_WithCharDevice(t *testing.T) {
	file, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	if err != nil {
		t.Skipf("cannot open %s: %v", os.DevNull, err)
	}
	defer file.Close()

	assert.True(t, IsTTY(file))
}

func TestNewStartConfig(t *testing.T) {
	assert.Equal(t, ModeStatic, NewStartConfig().Mode())
	assert.Equal(t, ModeClassify, NewStartConfig(WithClassifyMode()).Mode())
	assert.Equal(t, ModeStatic, NewStartConfig(WithClassifyMode(), WithStaticMode()).Mode())
}

func TestCountVerdicts(t *testing.T) {
	constant, balanced, failed := countVerdicts([]m.Report{
		{Verdict: m.Constant},
		{Verdict: m.Balanced},
		{Verdict: m.Balanced},
		{Verdict: m.Constant, Error: "boom"},
	})

	assert.Equal(t, 1, constant)
	assert.Equal(t, 2, balanced)
	assert.Equal(t, 1, failed)
}
