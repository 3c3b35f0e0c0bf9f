package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	content := `
dotnetPath: /usr/local/bin/dotnet
server:
  path: /opt/server/LanguageServer.dll
  args: ["--logLevel", "Information"]
  env:
    DOTNET_NOLOGO: "1"
  envFiles:
    - server.env
  settingsFile: settings.json
`

	cfg, err := Parse([]byte(content))
	require.NoError(t, err)
	require.Equal(t, "/usr/local/bin/dotnet", cfg.DotnetPath)
	require.Equal(t, "/opt/server/LanguageServer.dll", cfg.Server.Path)
	require.Equal(t, []string{"--logLevel", "Information"}, cfg.Server.Args)
	require.Equal(t, "1", cfg.Server.Env["DOTNET_NOLOGO"])
	require.Equal(t, []string{"server.env"}, cfg.Server.EnvFiles)
}

func TestParseDefaultsDotnetPath(t *testing.T) {
	cfg, err := Parse([]byte("server:\n  path: srv\n"))
	require.NoError(t, err)
	require.Equal(t, "dotnet", cfg.DotnetPath)
}

func TestParseRejectsMalformedYaml(t *testing.T) {
	_, err := Parse([]byte("server: [unclosed"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "unable to parse tool configuration")
}

func TestLoadResolvesRelativePaths(t *testing.T) {
	dir := t.TempDir()
	content := "server:\n  path: bin/server\n  settingsFile: settings.json\n  envFiles:\n    - server.env\n"
	cfgPath := filepath.Join(dir, "tool.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o600))

	cfg, err := Load(cfgPath, "")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "bin", "server"), cfg.Server.Path)
	require.Equal(t, filepath.Join(dir, "settings.json"), cfg.Server.SettingsFile)
	require.Equal(t, []string{filepath.Join(dir, "server.env")}, cfg.Server.EnvFiles)
}

func TestLoadMissingDefaultFile(t *testing.T) {
	cfg, err := Load("", t.TempDir())
	require.NoError(t, err)
	require.Equal(t, "dotnet", cfg.DotnetPath)
	require.Empty(t, cfg.Server.Path)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), "")
	require.Error(t, err)
	require.Contains(t, err.Error(), "nope.yaml")
}
