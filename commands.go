package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ByLCY/codedoc/generate"
	"github.com/ByLCY/codedoc/layout"
	"github.com/ByLCY/codedoc/project"
	"github.com/ByLCY/codedoc/server"
)

func newRenderCmd() *cobra.Command {
	var in, out, format, debug string
	cmd := &cobra.Command{
		Use:   "render",
		Short: "排版报告并输出文档",
		RunE: func(cmd *cobra.Command, args []string) error {
			pl, err := newPipeline(cfg)
			if err != nil {
				return err
			}
			p, err := loadProject(in, cfg.Compose.MaxLineLength)
			if err != nil {
				return err
			}
			return writeOutput(pl, p, format, out, debug)
		},
	}
	cmd.Flags().StringVar(&in, "in", "report.codedoc", "报告源文件路径")
	cmd.Flags().StringVar(&out, "out", "output/documentation.pdf", "输出文件路径")
	cmd.Flags().StringVar(&format, "format", "", "输出格式 pdf|docx，默认按扩展名推断")
	cmd.Flags().StringVar(&debug, "debug", "", "分页调试 JSON 输出路径")
	return cmd
}

func newAnalyzeCmd() *cobra.Command {
	var (
		in, out, format, prompt, version string
		acceptAll                        bool
	)
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "为代码生成修改建议后输出文档",
		RunE: func(cmd *cobra.Command, args []string) error {
			pl, err := newPipeline(cfg)
			if err != nil {
				return err
			}
			template, err := cfg.PromptTemplate()
			if err != nil {
				return err
			}
			gen, err := newGenerator(cmd.Context())
			if err != nil {
				return err
			}
			if gen == nil {
				return fmt.Errorf("%w: generator.provider 为 none，无法分析", layout.ErrInvalidArgument)
			}
			defer closeGenerator(gen)

			p, err := loadProject(in, cfg.Compose.MaxLineLength)
			if err != nil {
				return err
			}
			versions := p.Versions
			if version != "" {
				v, err := p.MustVersion(version)
				if err != nil {
					return err
				}
				versions = []*project.Version{v}
			}

			for _, v := range versions {
				sum, err := generate.Analyze(cmd.Context(), gen, v, generate.AnalyzeOptions{
					Prompt:   prompt,
					Template: template,
					Logger:   logger,
				})
				if err != nil {
					return err
				}
				logger.Info("version analyzed",
					zap.String("version", v.Name),
					zap.Strings("generated", sum.Generated),
					zap.Strings("failed", sum.Failed))
				if acceptAll {
					acceptGenerated(v)
					logger.Info("suggestions applied", zap.Strings("files", v.Finalize()))
				}
			}
			return writeOutput(pl, p, format, out, "")
		},
	}
	cmd.Flags().StringVar(&in, "in", "report.codedoc", "报告源文件路径")
	cmd.Flags().StringVar(&out, "out", "output/documentation.pdf", "输出文件路径")
	cmd.Flags().StringVar(&format, "format", "", "输出格式 pdf|docx")
	cmd.Flags().StringVar(&prompt, "prompt", "", "附加在代码后的分析要求")
	cmd.Flags().StringVar(&version, "version", "", "只分析指定版本，默认全部版本")
	cmd.Flags().BoolVar(&acceptAll, "accept-all", false, "采纳全部成功生成的建议并替换代码")
	return cmd
}

// acceptGenerated 采纳所有未失败的待审阅建议。
func acceptGenerated(v *project.Version) {
	for _, file := range v.Pending() {
		if s := v.Suggestion(file); s == nil || s.Failed {
			continue
		}
		if err := v.Review(file, project.DecisionAccepted); err != nil {
			logger.Warn("suggestion not accepted", zap.String("file", file), zap.Error(err))
		}
	}
}

func newQueryCmd() *cobra.Command {
	var (
		in, prompt     string
		includeContext bool
	)
	cmd := &cobra.Command{
		Use:   "query",
		Short: "向生成服务提问，可引用报告内容作为上下文",
		RunE: func(cmd *cobra.Command, args []string) error {
			var p *project.Project
			if in != "" {
				var err error
				if p, err = loadProject(in, cfg.Compose.MaxLineLength); err != nil {
					return err
				}
			}
			gen, err := newGenerator(cmd.Context())
			if err != nil {
				return err
			}
			if gen == nil {
				return fmt.Errorf("%w: generator.provider 为 none，无法提问", layout.ErrInvalidArgument)
			}
			defer closeGenerator(gen)
			return runQuery(cmd.Context(), cmd.OutOrStdout(), gen, generate.QueryOptions{
				Prompt:         prompt,
				Project:        p,
				IncludeContext: includeContext,
				Logger:         logger,
			})
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "报告源文件路径，提供时可在问题中引用 ${versions[0].notes[0]} 等")
	cmd.Flags().StringVar(&prompt, "prompt", "", "问题内容")
	cmd.Flags().BoolVar(&includeContext, "context", false, "附带报告已保存的版本内容")
	return cmd
}

func runQuery(ctx context.Context, out io.Writer, gen generate.Generator, opts generate.QueryOptions) error {
	ans, err := generate.Query(ctx, gen, opts)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, ans.Text)
	if ans.Failed {
		return errors.New("query failed")
	}
	return nil
}

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "启动 HTTP 服务",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				cfg.Server.Addr = addr
			}
			return serve(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "监听地址，默认取配置 server.addr")
	return cmd
}

func serve(ctx context.Context) error {
	pl, err := newPipeline(cfg)
	if err != nil {
		return err
	}
	template, err := cfg.PromptTemplate()
	if err != nil {
		return err
	}
	gen, err := newGenerator(ctx)
	if err != nil {
		logger.Warn("generator unavailable, analysis disabled", zap.Error(err))
		gen = nil
	}
	if gen != nil {
		defer closeGenerator(gen)
	}

	srv := server.NewServer(pl, gen, logger, server.Options{
		Template:     template,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
		CallTimeout:  cfg.GeneratorTimeout(),
	})
	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		// 分析接口按文件数自行延长写超时
		WriteTimeout: cfg.GeneratorTimeout() + 60*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		logger.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info("starting codedoc", zap.String("addr", cfg.Server.Addr))
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
