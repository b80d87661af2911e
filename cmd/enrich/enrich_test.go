package enrich

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"go.uber.org/goleak"

	"github.com/agoda-com/codecompass/internal/config"
	internalenrich "github.com/agoda-com/codecompass/internal/enrich"
	"github.com/agoda-com/codecompass/internal/sarif"
	"github.com/agoda-com/codecompass/internal/techdebt"
	sharederrors "github.com/agoda-com/codecompass/pkg/shared/errors"
)

const reportTemplate = `{"version": "2.1.0", "runs": [{"results": [{"ruleId": %q, "message": {"text": "m"}}]}]}`

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newEnricher() *internalenrich.Enricher {
	return internalenrich.NewEnricher(techdebt.New(techdebt.NewOverlay()), hclog.NewNullLogger())
}

func TestRunBatch(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")

	ruleIDs := []string{"CA1707", "CA1822", "CS8602", "CS0649"}
	var inputs []string
	for i, id := range ruleIDs {
		input := filepath.Join(dir, fmt.Sprintf("report%d.sarif", i))
		require.NoError(t, os.WriteFile(input, []byte(fmt.Sprintf(reportTemplate, id)), 0o644))
		inputs = append(inputs, input)
	}

	jobs := plan(&RunOptions{Inputs: inputs, OutputDir: outDir}, ".enriched")
	require.NoError(t, run(context.Background(), newEnricher(), jobs, 2, hclog.NewNullLogger()))

	for i, id := range ruleIDs {
		data, err := os.ReadFile(filepath.Join(outDir, fmt.Sprintf("report%d.enriched.sarif", i)))
		require.NoError(t, err)
		assert.Equal(t, id, gjson.GetBytes(data, "runs.0.results.0.ruleId").String())
		assert.True(t, gjson.GetBytes(data, "runs.0.results.0.properties.techDebt").Exists())
	}
}

func TestRunBatchReportsFailure(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.sarif")
	require.NoError(t, os.WriteFile(bad, []byte(`{"version": "3.0.0", "runs": []}`), 0o644))

	jobs := []job{{input: bad, output: filepath.Join(dir, "bad.out.sarif")}}
	err := run(context.Background(), newEnricher(), jobs, 1, hclog.NewNullLogger())
	assert.ErrorIs(t, err, sarif.ErrUnsupportedVersion)
	assert.Equal(t, sharederrors.ExitInvalidReport, exitCodeFor(err))
	assert.NoFileExists(t, filepath.Join(dir, "bad.out.sarif"))

	jobs = []job{{input: filepath.Join(dir, "missing.sarif"), output: filepath.Join(dir, "missing.out.sarif")}}
	err = run(context.Background(), newEnricher(), jobs, 1, hclog.NewNullLogger())
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, sharederrors.ExitIOFailure, exitCodeFor(err))
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "a.sarif")
	output := filepath.Join(dir, "a.out.sarif")
	require.NoError(t, os.WriteFile(input, []byte(fmt.Sprintf(reportTemplate, "CA1707")), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := run(ctx, newEnricher(), []job{{input: input, output: output}}, 1, hclog.NewNullLogger())
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, output)
}

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"unsupported version", fmt.Errorf("wrap: %w", sarif.ErrUnsupportedVersion), sharederrors.ExitInvalidReport},
		{"invalid format", fmt.Errorf("wrap: %w", sarif.ErrInvalidFormat), sharederrors.ExitInvalidReport},
		{"io", errors.New("disk full"), sharederrors.ExitIOFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCodeFor(tt.err))
		})
	}
}

func TestConcurrency(t *testing.T) {
	cfg := config.DefaultConfig()
	assert.Greater(t, concurrency(cfg), 0)

	cfg.Batch.Concurrency = 3
	assert.Equal(t, 3, concurrency(cfg))
}
