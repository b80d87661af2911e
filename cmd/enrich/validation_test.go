package enrich

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    RunOptions
		args    []string
		wantErr string
	}{
		{
			name: "single input with output",
			opts: RunOptions{Inputs: []string{"a.sarif"}, Output: "b.sarif"},
		},
		{
			name: "many inputs with output dir",
			opts: RunOptions{Inputs: []string{"a.sarif", "b.sarif"}, OutputDir: "out"},
		},
		{
			name:    "positional args",
			opts:    RunOptions{Inputs: []string{"a.sarif"}, Output: "b.sarif"},
			args:    []string{"c.sarif"},
			wantErr: "unexpected positional arguments: c.sarif",
		},
		{
			name:    "no input",
			opts:    RunOptions{Output: "b.sarif"},
			wantErr: "--input is required",
		},
		{
			name:    "blank input",
			opts:    RunOptions{Inputs: []string{" "}, Output: "b.sarif"},
			wantErr: "--input must not be empty",
		},
		{
			name:    "output and output dir",
			opts:    RunOptions{Inputs: []string{"a.sarif"}, Output: "b.sarif", OutputDir: "out"},
			wantErr: "--output and --output-dir are mutually exclusive",
		},
		{
			name:    "no destination",
			opts:    RunOptions{Inputs: []string{"a.sarif"}},
			wantErr: "one of --output or --output-dir is required",
		},
		{
			name:    "output with many inputs",
			opts:    RunOptions{Inputs: []string{"a.sarif", "b.sarif"}, Output: "c.sarif"},
			wantErr: "--output accepts a single --input, use --output-dir for 2 inputs",
		},
		{
			name:    "output overwrites input",
			opts:    RunOptions{Inputs: []string{"a.sarif"}, Output: "./a.sarif"},
			wantErr: `--output must differ from --input "a.sarif"`,
		},
		{
			name:    "colliding names in output dir",
			opts:    RunOptions{Inputs: []string{filepath.Join("api", "build.sarif"), filepath.Join("web", "build.sarif")}, OutputDir: "out"},
			wantErr: "would both be written to",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate(&tt.opts, tt.args, ".enriched")
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestPlan(t *testing.T) {
	jobs := plan(&RunOptions{Inputs: []string{filepath.Join("in", "a.sarif"), "b.json"}, OutputDir: "out"}, ".enriched")
	assert.Equal(t, []job{
		{input: filepath.Join("in", "a.sarif"), output: filepath.Join("out", "a.enriched.sarif")},
		{input: "b.json", output: filepath.Join("out", "b.enriched.json")},
	}, jobs)

	jobs = plan(&RunOptions{Inputs: []string{"a.sarif"}, Output: "result.sarif"}, ".enriched")
	assert.Equal(t, []job{{input: "a.sarif", output: "result.sarif"}}, jobs)
}

func TestCheckInputs(t *testing.T) {
	dir := t.TempDir()
	report := filepath.Join(dir, "a.sarif")
	require.NoError(t, os.WriteFile(report, []byte("{}"), 0o644))

	assert.NoError(t, checkInputs([]string{report}))

	err := checkInputs([]string{report, filepath.Join(dir, "missing.sarif")})
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.ErrorContains(t, err, "missing.sarif")

	assert.ErrorContains(t, checkInputs([]string{dir}), "is a directory")
}
