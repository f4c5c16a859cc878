// Package config 读取 YAML 配置并叠加环境变量，转换为排版、组稿与生成服务的参数。
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all codedoc configuration.
type Config struct {
	Page      PageConfig      `yaml:"page"`
	Styles    StylesConfig    `yaml:"styles"`
	Compose   ComposeConfig   `yaml:"compose"`
	Generator GeneratorConfig `yaml:"generator"`
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`

	// Fonts 将字体族名映射到 TTF 文件路径，覆盖或补充内置的 Latin Modern 字体。
	Fonts map[string]string `yaml:"fonts"`
}

// PageConfig 描述纸张与页边距。长度支持 mm/cm/in/pt 后缀，无后缀视为 mm。
type PageConfig struct {
	Size      string       `yaml:"size"`
	Landscape bool         `yaml:"landscape"`
	Width     string       `yaml:"width"`
	Height    string       `yaml:"height"`
	Margin    MarginConfig `yaml:"margin"`
	Footer    FooterConfig `yaml:"footer"`
	TextColor string       `yaml:"text_color"`
}

type MarginConfig struct {
	Top    string `yaml:"top"`
	Right  string `yaml:"right"`
	Bottom string `yaml:"bottom"`
	Left   string `yaml:"left"`
}

// FooterConfig 的 Text 为空表示不输出页脚。
type FooterConfig struct {
	Text   string `yaml:"text"`
	Height string `yaml:"height"`
	Size   string `yaml:"size"`
}

// StyleConfig 描述一类块的字体。Leading 可为绝对长度或 "1.2x" 形式的倍数。
type StyleConfig struct {
	Family  string `yaml:"family"`
	Size    string `yaml:"size"`
	Leading string `yaml:"leading"`
	Indent  string `yaml:"indent"`
}

type StylesConfig struct {
	Heading1  StyleConfig `yaml:"heading1"`
	Heading2  StyleConfig `yaml:"heading2"`
	Heading3  StyleConfig `yaml:"heading3"`
	Paragraph StyleConfig `yaml:"paragraph"`
	Code      StyleConfig `yaml:"code"`
}

type ComposeConfig struct {
	MaxLineLength int    `yaml:"max_line_length"`
	TabWidth      int    `yaml:"tab_width"`
	Spacer        string `yaml:"spacer"`
}

// GeneratorConfig 选择代码分析使用的生成服务。
type GeneratorConfig struct {
	Provider string `yaml:"provider"` // gemini, endpoint, none
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url"`
	Endpoint string `yaml:"endpoint"`
	Timeout  string `yaml:"timeout"`
	Template string `yaml:"template"`
}

type ServerConfig struct {
	Addr         string `yaml:"addr"`
	MaxBodyBytes int64  `yaml:"max_body_bytes"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig 返回默认配置：US Letter，上下 72pt、左右 36pt，代码 8pt 等宽并按 65 字符折行。
func DefaultConfig() *Config {
	style := func(family, size, leading, indent string) StyleConfig {
		return StyleConfig{Family: family, Size: size, Leading: leading, Indent: indent}
	}
	return &Config{
		Page: PageConfig{
			Size:   "letter",
			Margin: MarginConfig{Top: "72pt", Right: "36pt", Bottom: "72pt", Left: "36pt"},
			Footer: FooterConfig{Height: "36pt", Size: "8pt"},
		},
		Styles: StylesConfig{
			Heading1:  style("serif-bold", "18pt", "22pt", "0"),
			Heading2:  style("serif-bold", "14pt", "18pt", "0"),
			Heading3:  style("serif-bold", "12pt", "14pt", "0"),
			Paragraph: style("serif", "10pt", "12pt", "0"),
			Code:      style("mono", "8pt", "8pt", "10pt"),
		},
		Compose: ComposeConfig{MaxLineLength: 65, TabWidth: 4, Spacer: "10pt"},
		Generator: GeneratorConfig{
			Provider: "gemini",
			Model:    "gemini-2.0-flash",
			Timeout:  "120s",
		},
		Server:  ServerConfig{Addr: ":8090", MaxBodyBytes: 10 << 20},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load 读取 path 指向的 YAML 配置；path 为空或文件不存在时使用默认值。随后叠加环境变量。
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if cfg, err = Parse(data); err != nil {
				return nil, err
			}
		}
	}
	cfg.applyEnvOverrides()
	return cfg, nil
}

// Parse 从 YAML 文本读取配置（不叠加环境变量）。
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// Marshal 将配置序列化为 YAML。
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

func (c *Config) applyEnvOverrides() {
	c.Generator.APIKey = envOr("GEMINI_API_KEY", c.Generator.APIKey)
	c.Generator.APIKey = envOr("CODEDOC_API_KEY", c.Generator.APIKey)
	c.Generator.Provider = envOr("CODEDOC_GENERATOR", c.Generator.Provider)
	c.Generator.Model = envOr("CODEDOC_MODEL", c.Generator.Model)
	c.Generator.BaseURL = envOr("CODEDOC_BASE_URL", c.Generator.BaseURL)
	c.Generator.Endpoint = envOr("CODEDOC_ENDPOINT", c.Generator.Endpoint)
	c.Generator.Timeout = envOr("CODEDOC_TIMEOUT", c.Generator.Timeout)
	c.Page.Size = envOr("CODEDOC_PAGE_SIZE", c.Page.Size)
	c.Compose.MaxLineLength = envInt("CODEDOC_MAX_LINE_LENGTH", c.Compose.MaxLineLength)
	c.Server.Addr = envOr("CODEDOC_ADDR", c.Server.Addr)
	c.Logging.Level = envOr("CODEDOC_LOG_LEVEL", c.Logging.Level)
}

// GeneratorTimeout 解析生成请求超时，无法解析时返回 120s。
func (c *Config) GeneratorTimeout() time.Duration {
	if d, err := time.ParseDuration(c.Generator.Timeout); err == nil && d > 0 {
		return d
	}
	return 120 * time.Second
}

// Validate 检查配置能否转换为有效的排版与组稿参数。
func (c *Config) Validate() error {
	if _, err := c.BuildOptions(); err != nil {
		return err
	}
	if _, err := c.ComposeOptions(); err != nil {
		return err
	}
	if err := c.checkFamilies(); err != nil {
		return err
	}
	switch strings.ToLower(c.Generator.Provider) {
	case "", "none", "gemini":
	case "endpoint":
		if c.Generator.Endpoint == "" {
			return fmt.Errorf("generator.endpoint is required for provider endpoint")
		}
	default:
		return fmt.Errorf("unknown generator provider %q", c.Generator.Provider)
	}
	if _, err := time.ParseDuration(c.Generator.Timeout); c.Generator.Timeout != "" && err != nil {
		return fmt.Errorf("invalid generator.timeout %q: %w", c.Generator.Timeout, err)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
