package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/bubblesim/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRunReportsEveryMethod(t *testing.T) {
	out, err := execute(t, "run", "--no-plot")
	require.NoError(t, err)
	for _, tag := range []string{"RK1", "RK2", "RK4"} {
		assert.Contains(t, out, "Velocidade limite usando "+tag+":")
		assert.Contains(t, out, "Tempo até atingir a velocidade limite ("+tag+"):")
	}
	assert.Contains(t, out, "Precisão: 1e-05mm/s")
}

func TestRootPrintsCharts(t *testing.T) {
	out, err := execute(t, "--methods", "euler,rk4", "--theme", "mono")
	require.NoError(t, err)
	assert.Contains(t, out, "Bolha de ar em xampu (usando Euler):")
	assert.Contains(t, out, "Bolha de ar em xampu (usando RK4):")
	assert.Contains(t, out, "Comparação:")
	assert.NotContains(t, out, "Euler Aperfeiçoado")
	assert.Equal(t, 2, strings.Count(out, "◆"), "one separator between each pair of charts")
}

func TestMethodCommand(t *testing.T) {
	out, err := execute(t, "method", "rk2", "--no-plot")
	require.NoError(t, err)
	assert.Contains(t, out, "usando RK2")
	assert.NotContains(t, out, "usando RK4")

	_, err = execute(t, "method", "simpson")
	assert.Error(t, err)
}

func TestCompareTable(t *testing.T) {
	out, err := execute(t, "compare", "--preset", "coarse")
	require.NoError(t, err)
	assert.Contains(t, out, "comparing methods (dt=1e-08")
	for _, m := range []string{"euler", "heun", "rk4", "analytic v*:"} {
		assert.Contains(t, out, m)
	}
}

func TestPlotWritesFiles(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "plot", "--out", dir, "--format", "svg")
	require.NoError(t, err)
	for _, name := range []string{"euler.svg", "heun.svg", "rk4.svg", "comparison.svg"} {
		assert.FileExists(t, filepath.Join(dir, name))
		assert.Contains(t, out, name)
	}
}

func TestInitConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bubble.yaml")
	_, err := execute(t, "init-config", path, "--tol", "1e-6", "--set", "radius=3")
	require.NoError(t, err)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1e-6, cfg.Tolerance)
	assert.Equal(t, 3.0, cfg.Bubble.Radius)
	assert.Equal(t, config.DefaultDt, cfg.Dt)
}

func TestConfigFileThenFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bubble.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dt: 2.0e-9\ntolerance: 1.0e-4\n"), 0644))

	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--config", path, "--tol", "1e-3"}))

	cfg, err := loadConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, 2e-9, cfg.Dt)
	assert.Equal(t, 1e-3, cfg.Tolerance)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown preset", []string{"run", "--preset", "syrup"}, "unknown preset"},
		{"bad set", []string{"run", "--set", "radius"}, "want name=value"},
		{"bad set value", []string{"run", "--set", "radius=big"}, "invalid --set"},
		{"unknown param", []string{"run", "--set", "colour=1"}, "colour"},
		{"bad stop rule", []string{"run", "--stop-rule", "sideways"}, "sideways"},
		{"zero step", []string{"run", "--dt", "0"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.want), "error %q does not mention %q", err, tt.want)
		})
	}
}

func TestListings(t *testing.T) {
	out, err := execute(t, "presets")
	require.NoError(t, err)
	for _, p := range config.ListPresets() {
		assert.Contains(t, out, p)
	}

	out, err = execute(t, "methods")
	require.NoError(t, err)
	assert.Contains(t, out, "improved_euler")
	assert.Less(t, strings.Index(out, "euler"), strings.Index(out, "rk4"))
}

func TestSweep(t *testing.T) {
	out, err := execute(t, "sweep", "--param", "radius=2,3", "--param", "drag=400:420:2")
	require.NoError(t, err)
	assert.Contains(t, out, "radius")
	assert.Contains(t, out, "drag")
	assert.Equal(t, 5, strings.Count(strings.TrimSpace(out), "\n")+1, "header plus four grid points:\n%s", out)

	_, err = execute(t, "sweep", "--param", "colour=1,2")
	assert.ErrorContains(t, err, "unknown param")

	_, err = execute(t, "sweep")
	assert.Error(t, err)
}
