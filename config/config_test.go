package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/codedoc/binding"
	"github.com/ByLCY/codedoc/generate"
	"github.com/ByLCY/codedoc/layout"
	"github.com/ByLCY/codedoc/project"
)

func TestDefaultConfigMatchesLayoutDefaults(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	opts, err := cfg.BuildOptions()
	require.NoError(t, err)
	approx := cmp.Comparer(func(a, b float64) bool {
		d := a - b
		return d < 1e-9 && d > -1e-9
	})
	if diff := cmp.Diff(layout.DefaultOptions(), opts, approx); diff != "" {
		t.Fatalf("默认排版参数不一致 (-want +got):\n%s", diff)
	}

	co, err := cfg.ComposeOptions()
	require.NoError(t, err)
	if diff := cmp.Diff(project.DefaultComposeOptions(), co, approx); diff != "" {
		t.Fatalf("默认组稿参数不一致 (-want +got):\n%s", diff)
	}

	tpl, err := cfg.PromptTemplate()
	require.NoError(t, err)
	assert.Equal(t, binding.DefaultTemplate, tpl)
	assert.Equal(t, 120*time.Second, cfg.GeneratorTimeout())
}

func TestParseYAML(t *testing.T) {
	cfg, err := Parse([]byte(`
page:
  size: a4
  landscape: true
  margin: {top: 20mm, right: 1cm, bottom: 20mm, left: 0.5in}
  footer:
    text: "Page {page} of {pages}"
    height: 15mm
    size: 9pt
  text_color: "#202020"
styles:
  code:
    family: mono
    size: 9pt
    leading: 1.5x
    indent: 4mm
compose:
  max_line_length: 80
generator:
  provider: endpoint
  endpoint: http://localhost:9000/generate
  timeout: 5s
  template: "Review ${file}:\n${code}"
`))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	opts, err := cfg.BuildOptions()
	require.NoError(t, err)
	assert.Equal(t, 297.0, opts.PageWidth)
	assert.Equal(t, 210.0, opts.PageHeight)
	assert.InDelta(t, 10, opts.Margin.Right, 1e-9)
	assert.InDelta(t, 12.7, opts.Margin.Left, 1e-9)
	assert.Equal(t, "Page {page} of {pages}", opts.Footer.Text)
	assert.InDelta(t, 15, opts.Footer.Height, 1e-9)
	assert.InDelta(t, 9*layout.PtToMm*1.5, opts.Styles.Code.LineHeight, 1e-9)
	assert.InDelta(t, 4, opts.Styles.Code.Indent, 1e-9)
	// 未覆盖的样式保留默认值
	assert.InDelta(t, layout.Pt(12).ToMM(), opts.Styles.Paragraph.LineHeight, 1e-9)

	color, err := cfg.TextColor()
	require.NoError(t, err)
	require.NotNil(t, color)
	assert.Equal(t, layout.Color{R: 0x20, G: 0x20, B: 0x20}, *color)

	co, err := cfg.ComposeOptions()
	require.NoError(t, err)
	assert.Equal(t, 80, co.MaxLineLength)
	assert.Equal(t, 5*time.Second, cfg.GeneratorTimeout())

	gen, err := cfg.NewGenerator(context.Background())
	require.NoError(t, err)
	assert.IsType(t, &generate.Endpoint{}, gen)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := map[string]func(c *Config){
		"bad paper":     func(c *Config) { c.Page.Size = "b5" },
		"bad margin":    func(c *Config) { c.Page.Margin.Top = "wide" },
		"huge margin":   func(c *Config) { c.Page.Margin.Top = "200mm"; c.Page.Margin.Bottom = "200mm" },
		"bad leading":   func(c *Config) { c.Styles.Code.Leading = "0x" },
		"zero wrap":     func(c *Config) { c.Compose.MaxLineLength = 0 },
		"provider":      func(c *Config) { c.Generator.Provider = "openai" },
		"no endpoint":   func(c *Config) { c.Generator.Provider = "endpoint" },
		"bad timeout":   func(c *Config) { c.Generator.Timeout = "soon" },
		"footer size":   func(c *Config) { c.Page.Footer.Text = "x"; c.Page.Footer.Size = "" },
		"negative size": func(c *Config) { c.Styles.Paragraph.Size = "-1pt" },
		"unknown font":  func(c *Config) { c.Styles.Code.Family = "fira" },
	}
	for name, mutate := range cases {
		cfg := DefaultConfig()
		mutate(cfg)
		assert.Error(t, cfg.Validate(), name)
	}

	cfg := DefaultConfig()
	cfg.Generator.Template = "no code here ${prompt}"
	_, err := cfg.PromptTemplate()
	assert.Error(t, err)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "codedoc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  addr: \":9999\"\ncompose:\n  max_line_length: 70\n"), 0o644))

	t.Setenv("GEMINI_API_KEY", "from-env")
	t.Setenv("CODEDOC_MAX_LINE_LENGTH", "72")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, 72, cfg.Compose.MaxLineLength)
	assert.Equal(t, "from-env", cfg.Generator.APIKey)

	missing, err := Load(filepath.Join(dir, "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "letter", missing.Page.Size)

	require.NoError(t, os.WriteFile(path, []byte("page: [oops"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestMarshalRoundTrip(t *testing.T) {
	data, err := DefaultConfig().Marshal()
	require.NoError(t, err)
	back, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), back)
}

func TestNoneProvider(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Generator.Provider = "none"
	gen, err := cfg.NewGenerator(context.Background())
	require.NoError(t, err)
	assert.Nil(t, gen)
}

func TestTextColorUnsetAndBlack(t *testing.T) {
	cfg := DefaultConfig()
	color, err := cfg.TextColor()
	require.NoError(t, err)
	assert.Nil(t, color)

	cfg.Page.TextColor = "#000000"
	color, err = cfg.TextColor()
	require.NoError(t, err)
	require.NotNil(t, color)
	assert.Equal(t, layout.Color{}, *color)

	cfg.Page.TextColor = "black"
	_, err = cfg.TextColor()
	assert.ErrorIs(t, err, layout.ErrInvalidArgument)
}

func TestFontFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fira.ttf")
	require.NoError(t, os.WriteFile(path, []byte("ttf"), 0o644))

	cfg := DefaultConfig()
	cfg.Fonts = map[string]string{"fira": path}
	cfg.Styles.Code.Family = "fira"
	require.NoError(t, cfg.Validate())

	files, err := cfg.FontFiles()
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{"fira": []byte("ttf")}, files)

	cfg.Fonts["missing"] = filepath.Join(dir, "missing.ttf")
	_, err = cfg.FontFiles()
	assert.ErrorIs(t, err, layout.ErrIOFailure)

	files, err = DefaultConfig().FontFiles()
	require.NoError(t, err)
	assert.Nil(t, files)
}
