package loader

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	obswire "github.com/bionicotaku/lingo-utils/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfig = `
server:
  grpc:
    addr: 0.0.0.0:9000
    timeout: 1s
  http:
    addr: 0.0.0.0:8000
    timeout: 2s
client:
  target: "dns:///127.0.0.1:9000"
  timeout: 500ms
observability:
  global_attributes:
    env: test
  tracing:
    enabled: true
    exporter: stdout
    sampling_ratio: 1.0
  metrics:
    enabled: true
    exporter: stdout
    interval: 60s
    grpc_include_health: true
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))
	return dir
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"SERVICE_NAME", "SERVICE_VERSION", "APP_ENV", "LOG_LEVEL", "PORT", "HTTP_PORT", "GREETER_TARGET", "CONF_PATH"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestResolveConfPath(t *testing.T) {
	clearEnv(t)
	assert.Equal(t, "configs", ResolveConfPath(""))

	t.Setenv("CONF_PATH", "/env/config")
	assert.Equal(t, "/env/config", ResolveConfPath(""))
	assert.Equal(t, "/custom/config", ResolveConfPath("/custom/config"))
}

func TestParseConfPath(t *testing.T) {
	clearEnv(t)
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	got, err := ParseConfPath(fs, []string{"-conf", "/tmp/hello.yaml"})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/hello.yaml", got)

	fs = flag.NewFlagSet("test", flag.ContinueOnError)
	got, err = ParseConfPath(fs, nil)
	require.NoError(t, err)
	assert.Equal(t, "configs", got)
}

func TestBuild_ValidConfig(t *testing.T) {
	clearEnv(t)
	dir := writeConfig(t, validConfig)
	t.Setenv("SERVICE_NAME", "hello-test")

	bundle, err := Build(Params{ConfPath: dir, Name: "ignored", Version: "v1.2.3"})
	require.NoError(t, err)

	bc := bundle.Bootstrap
	assert.Equal(t, "0.0.0.0:9000", bc.GetServer().GetGRPC().GetAddr())
	assert.Equal(t, time.Second, bc.GetServer().GetGRPC().GetTimeout())
	assert.Equal(t, "0.0.0.0:8000", bc.GetServer().GetHTTP().GetAddr())
	assert.Equal(t, 2*time.Second, bc.GetServer().GetHTTP().GetTimeout())
	assert.Equal(t, "dns:///127.0.0.1:9000", bc.GetClient().GetTarget())
	assert.Equal(t, 500*time.Millisecond, bc.GetClient().GetTimeout())

	assert.Equal(t, "hello-test", bundle.Service.Name)
	assert.Equal(t, "v1.2.3", bundle.Service.Version)
	assert.Equal(t, "development", bundle.Service.Environment)
	assert.NotEmpty(t, bundle.Service.InstanceID)

	require.NotNil(t, bundle.ObsConfig.Tracing)
	assert.True(t, bundle.ObsConfig.Tracing.Enabled)
	assert.Equal(t, 1.0, bundle.ObsConfig.Tracing.SamplingRatio)
	require.NotNil(t, bundle.ObsConfig.Metrics)
	assert.Equal(t, 60*time.Second, bundle.ObsConfig.Metrics.Interval)
	assert.True(t, bundle.ObsConfig.Metrics.GRPCEnabled, "grpc metrics default on")
	assert.True(t, bundle.ObsConfig.Metrics.GRPCIncludeHealth)
	assert.Equal(t, map[string]string{"env": "test"}, bundle.ObsConfig.GlobalAttributes)
}

func TestBuild_Defaults(t *testing.T) {
	clearEnv(t)
	dir := writeConfig(t, "server:\n  grpc:\n    addr: 127.0.0.1:9000\n")

	bundle, err := Build(Params{ConfPath: dir})
	require.NoError(t, err)
	assert.Equal(t, "hello", bundle.Service.Name)
	assert.Equal(t, "dev", bundle.Service.Version)
	assert.Nil(t, bundle.ObsConfig.Tracing)
	assert.Nil(t, bundle.ObsConfig.Metrics)
	assert.Empty(t, bundle.Bootstrap.GetClient().GetTarget())
}

func TestBuild_EnvOverrides(t *testing.T) {
	clearEnv(t)
	dir := writeConfig(t, validConfig)
	t.Setenv("PORT", "7000")
	t.Setenv("HTTP_PORT", "7001")
	t.Setenv("GREETER_TARGET", "127.0.0.1:7000")
	t.Setenv("APP_ENV", "staging")

	bundle, err := Build(Params{ConfPath: dir})
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:7000", bundle.Bootstrap.GetServer().GetGRPC().GetAddr())
	assert.Equal(t, "0.0.0.0:7001", bundle.Bootstrap.GetServer().GetHTTP().GetAddr())
	assert.Equal(t, "127.0.0.1:7000", bundle.Bootstrap.GetClient().GetTarget())
	assert.Equal(t, "staging", bundle.Service.Environment)
}

func TestBuild_DotEnvFile(t *testing.T) {
	clearEnv(t)
	dir := writeConfig(t, validConfig)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SERVICE_VERSION=from-dotenv\n"), 0o644))
	t.Cleanup(func() { _ = os.Unsetenv("SERVICE_VERSION") })

	bundle, err := Build(Params{ConfPath: dir})
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", bundle.Service.Version)
}

func TestBuild_Errors(t *testing.T) {
	cases := []struct {
		name    string
		content string
		stage   string
	}{
		{name: "bad address", content: "server:\n  grpc:\n    addr: not-an-address\n", stage: StageValidate},
		{name: "bad duration", content: "server:\n  grpc:\n    timeout: soon\n", stage: StageScan},
		{name: "negative timeout", content: "server:\n  http:\n    timeout: -1s\n", stage: StageValidate},
		{name: "sampling ratio", content: "observability:\n  tracing:\n    sampling_ratio: 2\n", stage: StageValidate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			dir := writeConfig(t, tc.content)
			_, err := Build(Params{ConfPath: dir})
			require.Error(t, err)
			var le *LoadError
			require.True(t, errors.As(err, &le))
			assert.Equal(t, tc.stage, le.Stage)
			assert.Equal(t, dir, le.Path)
			assert.Contains(t, le.Error(), "["+tc.stage+"]")
		})
	}
}

func TestBuild_MissingPath(t *testing.T) {
	clearEnv(t)
	_, err := Build(Params{ConfPath: filepath.Join(t.TempDir(), "missing.yaml")})
	var le *LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, StageLoad, le.Stage)
}

func TestWithPort(t *testing.T) {
	cases := []struct{ addr, want string }{
		{"0.0.0.0:9090", "0.0.0.0:8080"},
		{"127.0.0.1:9090", "127.0.0.1:8080"},
		{"[::1]:9090", "[::1]:8080"},
		{":9090", ":8080"},
		{"", "0.0.0.0:8080"},
		{"garbage", "0.0.0.0:8080"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, withPort(tc.addr, "8080"), tc.addr)
	}
}

func TestDotenvFilesOrder(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.local"), nil, 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	for _, confPath := range []string{dir, filepath.Join(dir, "config.yaml")} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), nil, 0o644))
		files := dotenvFiles(confPath)
		require.GreaterOrEqual(t, len(files), 2, confPath)
		assert.Equal(t, filepath.Join(dir, ".env.local"), files[0])
		assert.Equal(t, filepath.Join(dir, ".env"), files[1])
	}
	assert.Empty(t, configDir(filepath.Join(dir, "missing")))
}

func TestBuild_LogLevel(t *testing.T) {
	clearEnv(t)
	dir := writeConfig(t, validConfig)
	t.Setenv("LOG_LEVEL", "warn")

	bundle, err := Build(Params{ConfPath: dir})
	require.NoError(t, err)
	assert.Equal(t, "warn", bundle.Service.LoggerConfig().Level)
	assert.Equal(t, bundle.Service.Name, bundle.Service.ObservabilityInfo().Name)
}

func TestNormalizeNilSections(t *testing.T) {
	var o *Observability
	assert.Equal(t, obswire.ObservabilityConfig{}, o.Normalize())

	cfg := (&Observability{Metrics: &Metrics{}}).Normalize()
	assert.Nil(t, cfg.Tracing)
	require.NotNil(t, cfg.Metrics)
	assert.True(t, cfg.Metrics.GRPCEnabled)
	assert.False(t, cfg.Metrics.GRPCIncludeHealth)
}

func TestLoadClient_EnvWithoutConfig(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("GREETER_TARGET", "10.0.0.7:9000")

	c, err := LoadClient("")
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.7:9000", c.GetTarget())
	assert.Zero(t, c.GetTimeout())
}

func TestLoadClient_NothingSet(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	c, err := LoadClient("")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Empty(t, c.GetTarget())
}

func TestLoadClient_DotenvInWorkingDir(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("GREETER_TARGET=10.0.0.8:9000\n"), 0o644))
	t.Cleanup(func() { _ = os.Unsetenv("GREETER_TARGET") })

	c, err := LoadClient("")
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.8:9000", c.GetTarget())
}

func TestLoadClient_ConfigAndEnv(t *testing.T) {
	clearEnv(t)
	dir := writeConfig(t, validConfig)

	c, err := LoadClient(dir)
	require.NoError(t, err)
	assert.Equal(t, "dns:///127.0.0.1:9000", c.GetTarget())
	assert.Equal(t, 500*time.Millisecond, c.GetTimeout())

	t.Setenv("GREETER_TARGET", "10.0.0.9:9000")
	c, err = LoadClient(dir)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.9:9000", c.GetTarget(), "env wins over the file")
	assert.Equal(t, 500*time.Millisecond, c.GetTimeout())
}

func TestLoadClient_BadConfig(t *testing.T) {
	clearEnv(t)
	_, err := LoadClient(filepath.Join(t.TempDir(), "missing.yaml"))
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, StageLoad, le.Stage)
}
