package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yashubustudio/diagnox/diagnox"
)

func TestExitCode(t *testing.T) {
	assert.Equal(t, 2, exitCode(diagnox.ErrNoSymptoms))
	assert.Equal(t, 2, exitCode(fmt.Errorf("predict: %w", diagnox.ErrNoSymptoms)))
	assert.Equal(t, 1, exitCode(&diagnox.LoadError{Artifact: diagnox.ArtifactModel, Err: errors.New("missing")}))
	assert.Equal(t, 1, exitCode(errors.New("other")))
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(t.Context())
	return stdout.String(), stderr.String(), err
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	out, _, err := execute(t, "config", "init", "--config", path, "--env-file", "")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)

	cfg, err := diagnox.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.TopK)

	_, _, err = execute(t, "config", "init", "--config", path, "--env-file", "")
	assert.Error(t, err)

	_, _, err = execute(t, "config", "init", "--config", path, "--env-file", "", "--force")
	assert.NoError(t, err)
}

func TestSymptomsCommand(t *testing.T) {
	dir := t.TempDir()
	training := filepath.Join(dir, "Training.csv")
	require.NoError(t, os.WriteFile(training, []byte("fever,skin_rash,prognosis\n1,0,Flu\n"), 0o644))
	t.Setenv("DIAGNOX_TRAINING_PATH", training)

	out, _, err := execute(t, "symptoms", "--config", filepath.Join(dir, "config.json"), "--env-file", "", "--filter", "rash")
	require.NoError(t, err)
	assert.Contains(t, out, "skin_rash")
	assert.Contains(t, out, "Skin Rash")
	assert.NotContains(t, out, "fever")
}

func TestPredictWithoutSymptoms(t *testing.T) {
	_, stderr, err := execute(t, "predict", "--env-file", "", "--config", filepath.Join(t.TempDir(), "config.json"))
	assert.ErrorIs(t, err, diagnox.ErrNoSymptoms)
	assert.Contains(t, stderr, "select at least one symptom")
	assert.Equal(t, 2, exitCode(err))
}

func TestAnalyzeRejectsBadSeverity(t *testing.T) {
	_, _, err := execute(t, "analyze", "fever", "--severity", "extreme", "--env-file", "")
	assert.ErrorIs(t, err, diagnox.ErrUnknownSeverity)
}

func TestPredictMissingArtifacts(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DIAGNOX_TRAINING_PATH", filepath.Join(dir, "missing.csv"))
	_, _, err := execute(t, "predict", "fever", "--config", filepath.Join(dir, "config.json"), "--env-file", "", "--log-level", "error")
	var loadErr *diagnox.LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, diagnox.ArtifactTraining, loadErr.Artifact)
	assert.Equal(t, 1, exitCode(err))
}

func TestFlagsDoNotCarryOverBetweenRuns(t *testing.T) {
	_, _, err := execute(t, "analyze", "fever", "--severity", "extreme", "--env-file", "")
	require.ErrorIs(t, err, diagnox.ErrUnknownSeverity)

	_, _, err = execute(t, "analyze", "--env-file", "")
	assert.ErrorIs(t, err, diagnox.ErrNoSymptoms)

	dir := t.TempDir()
	training := filepath.Join(dir, "Training.csv")
	require.NoError(t, os.WriteFile(training, []byte("fever,skin_rash,prognosis\n1,0,Flu\n"), 0o644))
	t.Setenv("DIAGNOX_TRAINING_PATH", training)
	cfgPath := filepath.Join(dir, "config.json")

	out, _, err := execute(t, "symptoms", "--config", cfgPath, "--env-file", "", "--filter", "rash")
	require.NoError(t, err)
	assert.NotContains(t, out, "fever")

	out, _, err = execute(t, "symptoms", "--config", cfgPath, "--env-file", "")
	require.NoError(t, err)
	assert.Contains(t, out, "fever")
	assert.Contains(t, out, "skin_rash")
}

func TestInteractiveMissingArtifacts(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DIAGNOX_TRAINING_PATH", filepath.Join(dir, "missing.csv"))
	_, _, err := execute(t, "interactive", "--config", filepath.Join(dir, "config.json"), "--env-file", "", "--log-level", "error")
	var loadErr *diagnox.LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, diagnox.ArtifactTraining, loadErr.Artifact)
}
