package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ByLCY/codedoc/config"
	"github.com/ByLCY/codedoc/generate"
	"github.com/ByLCY/codedoc/layout"
	"github.com/ByLCY/codedoc/project"
	"github.com/ByLCY/codedoc/renderer"
)

const sampleReport = "report \"CLI\" {\n" +
	"  version \"0.1\" {\n" +
	"    os: \"linux\"\n" +
	"    terminal \"$ go test ./...\\nok\"\n" +
	"    notes-file \"notes.md\"\n" +
	"  }\n" +
	"}\n"

func writeReport(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "report.codedoc"), []byte(sampleReport), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("# Notes\n\nAll green.\n"), 0o644))
	return filepath.Join(dir, "report.codedoc")
}

func TestRenderWritesDocumentAndDebug(t *testing.T) {
	logger = zaptest.NewLogger(t)
	in := writeReport(t)
	out := filepath.Join(t.TempDir(), "nested", "doc.pdf")
	debug := filepath.Join(t.TempDir(), "debug", "layout.json")

	pl, err := newPipeline(config.DefaultConfig())
	require.NoError(t, err)
	p, err := loadProject(in, 0)
	require.NoError(t, err)
	assert.Len(t, p.Version("0.1").Attachments, 2)

	require.NoError(t, writeOutput(pl, p, "", out, debug))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
	dbg, err := os.ReadFile(debug)
	require.NoError(t, err)
	assert.Contains(t, string(dbg), "App Version: 0.1")
}

func TestLoadProjectMissingFile(t *testing.T) {
	_, err := loadProject(filepath.Join(t.TempDir(), "none.codedoc"), 0)
	assert.ErrorIs(t, err, layout.ErrIOFailure)
}

func TestOutputFormat(t *testing.T) {
	f, err := outputFormat("", "out/doc.docx")
	require.NoError(t, err)
	assert.Equal(t, renderer.DOCX, f)

	f, err = outputFormat("", "out/doc.pdf")
	require.NoError(t, err)
	assert.Equal(t, renderer.PDF, f)

	f, err = outputFormat("pdf", "out/doc.docx")
	require.NoError(t, err)
	assert.Equal(t, renderer.PDF, f)

	_, err = outputFormat("rtf", "x")
	assert.ErrorIs(t, err, layout.ErrInvalidArgument)
}

func TestAcceptGeneratedSkipsFailed(t *testing.T) {
	logger = zaptest.NewLogger(t)
	v := &project.Version{Name: "1"}
	require.NoError(t, v.AddCode("a.go", "old"))
	require.NoError(t, v.AddCode("b.go", "old"))
	v.SetSuggestion("a.go", "new", false)
	v.SetSuggestion("b.go", "Error: Could not connect to the API.", true)

	acceptGenerated(v)
	assert.Equal(t, []string{"a.go"}, v.Finalize())
	code, _ := v.CodeFor("b.go")
	assert.Equal(t, "old", code)
}

func TestRunQueryWithReportContext(t *testing.T) {
	logger = zaptest.NewLogger(t)
	p, err := loadProject(writeReport(t), 0)
	require.NoError(t, err)
	var prompt string
	gen := generate.GeneratorFunc(func(ctx context.Context, req generate.Request) (string, error) {
		prompt = req.Prompt
		return "looks fine", nil
	})

	var out bytes.Buffer
	err = runQuery(context.Background(), &out, gen, generate.QueryOptions{
		Prompt:         "Summarize ${versions[0].terminalOutputs[0]} on ${versions[0].fields.os}",
		Project:        p,
		IncludeContext: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "looks fine\n", out.String())
	assert.Contains(t, prompt, "Query:\nSummarize $ go test ./...\nok on linux")

	failing := generate.GeneratorFunc(func(ctx context.Context, req generate.Request) (string, error) {
		return "", &generate.RemoteCallError{StatusCode: 503}
	})
	out.Reset()
	err = runQuery(context.Background(), &out, failing, generate.QueryOptions{Prompt: "hi"})
	assert.Error(t, err)
	assert.Equal(t, generate.PlaceholderConnect+"\n", out.String())
}

func TestNewGeneratorByProvider(t *testing.T) {
	logger = zaptest.NewLogger(t)
	cfg = config.DefaultConfig()
	cfg.Generator.Provider = "none"
	gen, err := newGenerator(context.Background())
	require.NoError(t, err)
	assert.Nil(t, gen)

	cfg.Generator.Provider = "gemini"
	cfg.Generator.APIKey = "k"
	cfg.Generator.Model = "gemini-test"
	gen, err = newGenerator(context.Background())
	require.NoError(t, err)
	g, ok := gen.(*generate.Gemini)
	require.True(t, ok)
	assert.Equal(t, "gemini-test", g.Model())
}
