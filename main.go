package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ByLCY/codedoc/config"
	"github.com/ByLCY/codedoc/generate"
	"github.com/ByLCY/codedoc/layout"
	"github.com/ByLCY/codedoc/pipeline"
	"github.com/ByLCY/codedoc/project"
	"github.com/ByLCY/codedoc/renderer"
	canvasrenderer "github.com/ByLCY/codedoc/renderer/canvas"
)

var (
	configPath string
	verbose    bool
	logger     *zap.Logger
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "codedoc",
	Short: "将代码版本报告排版为 PDF / DOCX 文档",
	Long: `codedoc 读取报告源文件（版本信息、测试结果、终端输出与代码），
可选地调用生成服务为每个代码文件给出修改建议，并输出分页文档。`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		zc := zap.NewProductionConfig()
		level, err := zapcore.ParseLevel(cfg.Logging.Level)
		if err != nil {
			return fmt.Errorf("logging.level: %w", err)
		}
		if verbose {
			level = zapcore.DebugLevel
		}
		zc.Level = zap.NewAtomicLevelAt(level)
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML 配置文件路径")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "输出调试日志")

	rootCmd.AddCommand(newRenderCmd())
	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newQueryCmd())
	rootCmd.AddCommand(newServeCmd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// newPipeline 按配置组装排版流水线。
func newPipeline(c *config.Config) (*pipeline.Pipeline, error) {
	build, err := c.BuildOptions()
	if err != nil {
		return nil, err
	}
	compose, err := c.ComposeOptions()
	if err != nil {
		return nil, err
	}
	color, err := c.TextColor()
	if err != nil {
		return nil, err
	}
	fontFiles, err := c.FontFiles()
	if err != nil {
		return nil, err
	}
	return pipeline.New(compose, build, canvasrenderer.Options{Fonts: fontFiles, TextColor: color}), nil
}

// loadProject 读取报告源文件，notes-file 相对于报告所在目录解析。
func loadProject(path string, maxLineLength int) (*project.Project, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, layout.IOFailure("打开报告文件 "+path, err)
	}
	defer f.Close()
	return project.Load(f, project.LoadOptions{
		Files:         os.DirFS(filepath.Dir(path)),
		MaxLineLength: maxLineLength,
	})
}

// writeOutput 渲染项目并写入 outPath；debugPath 非空时同时输出分页调试 JSON。
func writeOutput(pl *pipeline.Pipeline, p *project.Project, formatName, outPath, debugPath string) error {
	format, err := outputFormat(formatName, outPath)
	if err != nil {
		return err
	}
	data, res, err := pl.Render(p, format)
	if err != nil {
		return err
	}
	if debugPath != "" {
		if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
			return layout.IOFailure("创建调试目录", err)
		}
		if err := layout.WriteDebugJSON(res, debugPath); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return layout.IOFailure("创建输出目录", err)
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return layout.IOFailure("写入输出文件", err)
	}
	logger.Info("document written",
		zap.String("path", outPath),
		zap.String("format", format.Name),
		zap.Int("pages", len(res.Pages)))
	return nil
}

// outputFormat 未指定格式时按输出文件扩展名推断。
func outputFormat(name, outPath string) (renderer.Format, error) {
	if name == "" && filepath.Ext(outPath) == renderer.DOCX.Extension {
		return renderer.DOCX, nil
	}
	return renderer.ParseFormat(name)
}

// newGenerator 按配置创建生成器；provider 为 none 时返回 nil。
func newGenerator(ctx context.Context) (generate.Generator, error) {
	gen, err := cfg.NewGenerator(ctx)
	if err != nil || gen == nil {
		return gen, err
	}
	if m, ok := gen.(interface{ Model() string }); ok {
		logger.Info("generator ready", zap.String("provider", cfg.Generator.Provider), zap.String("model", m.Model()))
	}
	return gen, nil
}

func closeGenerator(gen generate.Generator) {
	if c, ok := gen.(interface{ Close() }); ok {
		c.Close()
	}
}
