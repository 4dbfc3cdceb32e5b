package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const request = `{"X":[[1],[2],[3],[4],[5]],"y":[2,3.9,6.1,8,9.8],"labels":{"title":"CLI plot"}}`

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	app := newApp()
	app.Reader = strings.NewReader(stdin)
	app.Writer = &out
	app.ErrWriter = &errOut

	err := app.Run(append([]string{"regressctl"}, args...))
	return out.String(), err
}

func TestFitCommand(t *testing.T) {
	out, err := run(t, request, "fit")
	require.NoError(t, err)

	var resp map[string]any
	require.NoError(t, sonic.UnmarshalString(out, &resp))
	assert.InDelta(t, 0.05, resp["intercept"], 1e-9)
	assert.Len(t, resp["predictions"], 5)
}

func TestRenderCommand_Stdout(t *testing.T) {
	out, err := run(t, request, "render")
	require.NoError(t, err)

	var resp map[string]string
	require.NoError(t, sonic.UnmarshalString(out, &resp))
	require.Len(t, resp, 1)
	assert.Contains(t, resp["html"], "<title>CLI plot</title>")
}

func TestRenderCommand_PNGFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "request.json")
	output := filepath.Join(dir, "plot.png")
	require.NoError(t, os.WriteFile(input, []byte(request), 0o644))

	_, err := run(t, "", "render", "--input", input, "--output", output, "--format", "png")
	require.NoError(t, err)

	raw, err := os.ReadFile(output)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, 1000, img.Bounds().Dx())
}

func TestRenderCommand_Errors(t *testing.T) {
	_, err := run(t, `{"X":[[1,2],[3]],"y":[1,2]}`, "render")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shape mismatch")

	_, err = run(t, request, "render", "--format", "svg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported render format")

	_, err = run(t, `not json`, "fit")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid JSON")
}
