package otter

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testInfo() *Info {
	return &Info{
		Author:      "otter",
		Name:        "Britain",
		ShortName:   "BRIT",
		Description: "Towns & industries of Britain",
		Date:        "2024-01-01",
		Comment:     "generated\nfrom otter",
	}
}

func TestRenderMain(t *testing.T) {
	s := &Script{
		Towns:  []*Town{{X: 1, Y: 2, Size: TownSmall, Name: "A"}},
		Canals: []*Canal{{3, 4}, {3, 5}},
	}

	buf := new(bytes.Buffer)
	require.NoError(t, RenderMain(buf, s))
	out := buf.String()

	assert.Contains(t, out, "\tTryTown(1,2,GSTown.TOWN_SIZE_SMALL,false,\"A\",0);\n")
	assert.Contains(t, out, "\tPlaceCanal(3,4);\n\tPlaceCanal(3,5);\n")
	assert.Contains(t, out, `print("Finished adding towns.");`)
	assert.Contains(t, out, `print("Finished adding canals.");`)
	assert.NotContains(t, out, `print("Finished adding industries.");`)
	assert.NotContains(t, out, `print("Finished adding signs.");`)
	assert.Contains(t, out, "function MainClass::LevelTiles(")

	// placement happens between pausing & unpausing
	pause := strings.Index(out, "GSGame.Pause();")
	town := strings.Index(out, "TryTown(1,2")
	unpause := strings.Index(out, "GSGame.Unpause();")
	assert.True(t, pause < town && town < unpause)

	assert.Len(t, s.Records(), 3)
}

func TestRenderMainEmpty(t *testing.T) {
	buf := new(bytes.Buffer)
	require.NoError(t, RenderMain(buf, nil))
	assert.NotContains(t, buf.String(), "Finished adding")
	assert.Contains(t, buf.String(), `print("Finish");`)
}

func TestRenderInfo(t *testing.T) {
	buf := new(bytes.Buffer)
	require.NoError(t, RenderInfo(buf, testInfo()))
	out := buf.String()

	assert.Contains(t, out, " * generated\n * from otter\n")
	assert.Contains(t, out, `{ return SELF_VERSION; }`)
	assert.Contains(t, out, `{ return "BRIT"; }`)
	assert.Contains(t, out, `{ return "1.11"; }`)
	assert.Contains(t, out, `{ return "Towns & industries of Britain"; }`)
	assert.Contains(t, out, "RegisterGS(FMainClass());")
}

func TestRenderInfoShortName(t *testing.T) {
	for _, name := range []string{"", "BRI", "BRITS", "BR1T"} {
		info := testInfo()
		info.ShortName = name
		err := RenderInfo(new(bytes.Buffer), info)
		var ce *ConfigError
		require.ErrorAs(t, err, &ce, name)
		assert.Equal(t, "short name", ce.Field)
	}
}

func TestRenderVersion(t *testing.T) {
	buf := new(bytes.Buffer)
	require.NoError(t, RenderVersion(buf, 7))
	assert.Contains(t, buf.String(), "SELF_VERSION <- 7;\n")
}

func TestWriteGameScript(t *testing.T) {
	dir := t.TempDir()

	s := &Script{Signs: []*Sign{{X: 1, Y: 1, Text: "Here"}}}
	require.NoError(t, WriteGameScript(dir, s, testInfo(), 3))

	for _, name := range []string{"main.nut", "info.nut", "version.nut"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.NotEmpty(t, data, name)
	}
	data, err := os.ReadFile(filepath.Join(dir, "main.nut"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "\tPlaceSign(1,1,\"Here\");\n")
}

func TestWriteGameScriptErrors(t *testing.T) {
	dir := t.TempDir()

	bad := testInfo()
	bad.ShortName = "TOOLONG"
	err := WriteGameScript(dir, &Script{}, bad, 1)
	assert.True(t, IsConfigError(err))

	// nothing written if anything is wrong
	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, files)

	err = WriteGameScript(filepath.Join(dir, "missing"), &Script{}, testInfo(), 1)
	assert.ErrorIs(t, err, ErrNoDirectory)

	assert.ErrorIs(t, WriteMainNut(filepath.Join(dir, "missing"), &Script{}), ErrNoDirectory)
	assert.ErrorIs(t, WriteVersionNut(filepath.Join(dir, "missing"), 1), ErrNoDirectory)
	assert.True(t, IsConfigError(WriteInfoNut(dir, bad)))

	require.NoError(t, WriteVersionNut(dir, 2))
	data, err := os.ReadFile(filepath.Join(dir, "version.nut"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "SELF_VERSION <- 2;")
}
