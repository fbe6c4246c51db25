// Package loader builds the service configuration bundle from the config
// file, .env files and environment overrides.
package loader

import (
	"flag"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"

	loginfra "github.com/bionicotaku/lingo-services-hello/internal/infrastructure/logger"

	obswire "github.com/bionicotaku/lingo-utils/observability"
	"github.com/caarlos0/env/v11"
	"github.com/go-kratos/kratos/v2/config"
	"github.com/go-kratos/kratos/v2/config/file"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

const envConfPath = "CONF_PATH"

// Stages reported by LoadError.
const (
	StageEnv      = "env"
	StageLoad     = "load"
	StageScan     = "scan"
	StageValidate = "validate"
)

// .env.local wins over .env: godotenv never overwrites a variable that is
// already set, so earlier files take precedence.
var envFileNames = []string{".env.local", ".env"}

// Params 包含构造配置 Bundle 所需的运行时输入参数。
type Params struct {
	ConfPath string // 配置文件路径（可为空，使用默认值）
	Name     string // 编译期注入的服务名（可为空）
	Version  string // 编译期注入的版本号（可为空）
}

// ServiceMetadata 保存服务标识信息，供日志和可观测性组件使用。
type ServiceMetadata struct {
	Name        string
	Version     string
	Environment string
	InstanceID  string
	LogLevel    string
}

// Bundle 聚合强类型的配置片段，供下游 Wire 注入使用。
type Bundle struct {
	Bootstrap *Bootstrap
	ObsConfig obswire.ObservabilityConfig
	Service   ServiceMetadata
}

// envOverrides lists the environment variables that win over the config file.
type envOverrides struct {
	ServiceName    string `env:"SERVICE_NAME"`
	ServiceVersion string `env:"SERVICE_VERSION"`
	Environment    string `env:"APP_ENV"`
	LogLevel       string `env:"LOG_LEVEL"`
	Port           string `env:"PORT"`
	HTTPPort       string `env:"HTTP_PORT"`
	GreeterTarget  string `env:"GREETER_TARGET"`
}

// LoadError 标记配置加载失败的阶段（Stage*）和路径。
type LoadError struct {
	Stage string
	Path  string
	Err   error
}

func (e *LoadError) Error() string {
	var b strings.Builder
	b.WriteString("config")
	if e.Path != "" {
		fmt.Fprintf(&b, " %q", e.Path)
	}
	if e.Stage != "" {
		fmt.Fprintf(&b, " [%s]", e.Stage)
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *LoadError) Unwrap() error { return e.Err }

// ObservabilityInfo 将服务元信息转换为 observability.ServiceInfo。
func (m ServiceMetadata) ObservabilityInfo() obswire.ServiceInfo {
	return obswire.ServiceInfo{
		Name:        m.Name,
		Version:     m.Version,
		Environment: m.Environment,
	}
}

// LoggerConfig 将服务元信息转换为 logger.Config。
func (m ServiceMetadata) LoggerConfig() loginfra.Config {
	return loginfra.Config{
		Service: m.Name,
		Version: m.Version,
		HostID:  m.InstanceID,
		Env:     m.Environment,
		Level:   m.LogLevel,
	}
}

// ParseConfPath parses -conf from args and applies the fallback rules.
func ParseConfPath(fs *flag.FlagSet, args []string) (string, error) {
	conf := fs.String("conf", "", "config path, eg: -conf configs/config.yaml")
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	return ResolveConfPath(*conf), nil
}

// ResolveConfPath 优先级：显式传入路径 > CONF_PATH 环境变量 > 默认路径。
func ResolveConfPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if v := os.Getenv(envConfPath); v != "" {
		return v
	}
	return defaultConfPath
}

// Build 读取 .env 和配置文件，叠加环境变量覆盖并校验，
// 然后推导服务元信息与 observability 配置。
func Build(params Params) (*Bundle, error) {
	confPath := ResolveConfPath(params.ConfPath)
	loadDotenv(confPath)

	overrides, err := readEnv()
	if err != nil {
		return nil, err
	}
	bootstrap, err := loadBootstrap(confPath, overrides)
	if err != nil {
		return nil, err
	}

	return &Bundle{
		Bootstrap: bootstrap,
		ObsConfig: bootstrap.GetObservability().Normalize(),
		Service:   overrides.serviceMetadata(params),
	}, nil
}

// LoadClient resolves the outbound Greeter settings for command-line tools.
// With a confPath it returns Build's client section. Without one only the
// working directory's .env files and GREETER_TARGET apply; CONF_PATH is not
// consulted so a missing configs/ directory is not an error.
// The result is never nil; unset fields are zero.
func LoadClient(confPath string) (*Client, error) {
	var bc *Bootstrap
	if confPath != "" {
		bundle, err := Build(Params{ConfPath: confPath})
		if err != nil {
			return nil, err
		}
		bc = bundle.Bootstrap
	} else {
		loadDotenv("")
		overrides, err := readEnv()
		if err != nil {
			return nil, err
		}
		bc = &Bootstrap{}
		overrides.apply(bc)
	}
	if c := bc.GetClient(); c != nil {
		return c, nil
	}
	return &Client{}, nil
}

func readEnv() (envOverrides, error) {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return envOverrides{}, &LoadError{Stage: StageEnv, Err: err}
	}
	return o, nil
}

func loadBootstrap(confPath string, overrides envOverrides) (*Bootstrap, error) {
	c := config.New(config.WithSource(file.NewSource(confPath)))
	defer c.Close()
	if err := c.Load(); err != nil {
		return nil, &LoadError{Stage: StageLoad, Path: confPath, Err: err}
	}

	bc := &Bootstrap{}
	if err := c.Scan(bc); err != nil {
		return nil, &LoadError{Stage: StageScan, Path: confPath, Err: err}
	}
	overrides.apply(bc)
	if err := bc.Validate(); err != nil {
		return nil, &LoadError{Stage: StageValidate, Path: confPath, Err: err}
	}
	return bc, nil
}

// apply 将非空的环境变量写入 bc，缺失的节点会被创建。
// PORT / HTTP_PORT 只替换端口，保留 host（Cloud Run 动态端口）。
func (o envOverrides) apply(bc *Bootstrap) {
	if o.Port != "" || o.HTTPPort != "" {
		if bc.Server == nil {
			bc.Server = &Server{}
		}
		bc.Server.GRPC = overridePort(bc.Server.GRPC, o.Port)
		bc.Server.HTTP = overridePort(bc.Server.HTTP, o.HTTPPort)
	}
	if o.GreeterTarget != "" {
		if bc.Client == nil {
			bc.Client = &Client{}
		}
		bc.Client.Target = o.GreeterTarget
	}
}

// serviceMetadata 优先级：环境变量 > 编译期注入值 > 默认值。
func (o envOverrides) serviceMetadata(params Params) ServiceMetadata {
	return ServiceMetadata{
		Name:        firstNonEmpty(o.ServiceName, params.Name, defaultServiceName),
		Version:     firstNonEmpty(o.ServiceVersion, params.Version, defaultServiceVersion),
		Environment: firstNonEmpty(o.Environment, defaultEnvironment),
		InstanceID:  instanceID(),
		LogLevel:    o.LogLevel,
	}
}

// instanceID is the hostname, or a random UUID when it is unavailable.
func instanceID() string {
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return uuid.NewString()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func overridePort(t *Transport, port string) *Transport {
	if port == "" {
		return t
	}
	if t == nil {
		t = &Transport{}
	}
	t.Addr = withPort(t.Addr, port)
	return t
}

// withPort keeps addr's host and swaps the port; an empty or unparsable
// addr binds all interfaces.
func withPort(addr, port string) string {
	host := "0.0.0.0"
	if h, _, err := net.SplitHostPort(addr); err == nil {
		host = h
	}
	return net.JoinHostPort(host, port)
}

// loadDotenv is best-effort: unreadable files are skipped.
func loadDotenv(confPath string) {
	if files := dotenvFiles(confPath); len(files) > 0 {
		_ = godotenv.Load(files...)
	}
}

// dotenvFiles lists existing .env files, the config directory before the
// working directory.
func dotenvFiles(confPath string) []string {
	cwd, _ := os.Getwd()
	var files []string
	seen := make(map[string]bool)
	for _, dir := range []string{configDir(confPath), cwd} {
		if dir == "" {
			continue
		}
		for _, name := range envFileNames {
			path := filepath.Join(dir, name)
			if seen[path] {
				continue
			}
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				seen[path] = true
				files = append(files, path)
			}
		}
	}
	return files
}

// configDir is the absolute directory holding confPath, or "" when it does
// not exist.
func configDir(confPath string) string {
	if confPath == "" {
		return ""
	}
	info, err := os.Stat(confPath)
	if err != nil {
		return ""
	}
	dir := confPath
	if !info.IsDir() {
		dir = filepath.Dir(confPath)
	}
	if abs, err := filepath.Abs(dir); err == nil {
		return abs
	}
	return filepath.Clean(dir)
}
