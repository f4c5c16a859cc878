package pipeline

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/codedoc/layout"
	"github.com/ByLCY/codedoc/project"
	"github.com/ByLCY/codedoc/renderer"
)

func demoProject(t *testing.T) *project.Project {
	t.Helper()
	p := project.New("demo")
	v, err := p.AddVersion("0.1.0")
	require.NoError(t, err)
	require.NoError(t, v.SetField("interpreter", "Python 3.12"))
	require.NoError(t, v.AddCode("app.py", "print('ok')"))
	return p
}

func TestRenderPDFAndDOCX(t *testing.T) {
	pl := Default()
	data, res, err := pl.Render(demoProject(t), renderer.PDF)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
	require.NotNil(t, res)
	assert.Equal(t, "App Version: 0.1.0", res.Texts()[0])

	data, _, err = pl.Render(demoProject(t), renderer.DOCX)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("PK")), "docx 应为 zip 容器")
}

func TestRenderRejectsUnknownFormat(t *testing.T) {
	_, _, err := Default().Render(demoProject(t), renderer.Format{Name: "rtf"})
	assert.ErrorIs(t, err, layout.ErrInvalidArgument)
}

func TestLayoutPropagatesComposeErrors(t *testing.T) {
	pl := Default()
	pl.Compose.MaxLineLength = -1
	_, err := pl.Layout(demoProject(t))
	assert.ErrorIs(t, err, layout.ErrInvalidArgument)
}
