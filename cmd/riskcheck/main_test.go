package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testModel = "../../diabetes_model.json"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append(args, "--model", testModel))
	err := cmd.Execute()
	return out.String(), err
}

func TestClinicalCommand(t *testing.T) {
	out, err := run(t, "clinical", "--glucose", "180", "--blood-pressure", "90", "--skin-thickness", "35",
		"--insulin", "150", "--bmi", "32", "--pedigree", "0.8", "--age", "45")
	require.NoError(t, err)

	assert.Contains(t, out, "Diabetes risk:")
	assert.Contains(t, out, "Zone:")
	assert.Contains(t, out, "Health metrics:")
	assert.Contains(t, out, "Diabetic")
}

func TestClinicalCommandRejectsOutOfRange(t *testing.T) {
	_, err := run(t, "clinical", "--age", "81")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "age must be at most 80")
}

func TestLifestyleCommand(t *testing.T) {
	out, err := run(t, "lifestyle", "--age", "45", "--weight", "90", "--height", "170",
		"--activity", "Rarely", "--diet", "Junk Food", "--family-history", "Both")
	require.NoError(t, err)

	assert.Contains(t, out, "BMI: 31.1")
	assert.Contains(t, out, "Start exercising regularly")
	assert.Contains(t, out, "Improve your diet")
	assert.Contains(t, out, "Manage your weight")
	assert.NotContains(t, out, "Zone:")
}

func TestLifestyleCommandUnknownDiet(t *testing.T) {
	_, err := run(t, "lifestyle", "--diet", "Keto")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown diet "Keto"`)
}

func TestMissingModel(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"clinical", "--model", "does-not-exist.json"})
	assert.Error(t, cmd.Execute())
}
