package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/aqingest/internal/ingest"
)

const (
	goodCSV = "Date,Time,CO(GT),RH\n" +
		"2004-03-10,18:00:00,2.6,48.9\n" +
		"2004-03-10,19:00:00,2.0\n" +
		"2004-03-10,20:00:00,2.2,\n"
	badCSV = "Date,Time\nx,y\n"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestValidate_Accepted(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.csv", goodCSV)

	out, err := execute(t, "validate", good)
	require.NoError(t, err)
	assert.Equal(t, exitOK, exitCode(err))

	assert.Contains(t, out, good+": accepted 2 of 3 rows (1 rejected, 2 readings defaulted)")
	assert.Contains(t, out, "  Row 3: Column count mismatch")
}

func TestValidate_RejectedFileSetsExitCode(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.csv", goodCSV)
	bad := writeFile(t, dir, "bad.csv", badCSV)
	empty := writeFile(t, dir, "empty.csv", "")

	out, err := execute(t, "validate", "--workers", "2", good, bad, empty)
	require.Error(t, err)
	assert.Equal(t, exitRejected, exitCode(err))
	assert.Contains(t, err.Error(), "2 of 3 files rejected")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.GreaterOrEqual(t, len(lines), 4)
	assert.True(t, strings.HasPrefix(lines[0], good+": accepted"), "reports keep argument order")
	assert.Contains(t, out, bad+": rejected (NoValidRows): No valid rows found in CSV file (Code: ING002)")
	assert.Contains(t, out, "  Row 2: Invalid data format")
	assert.Contains(t, out, empty+": rejected (EmptyFile)")
}

func TestValidate_JSON(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.csv", goodCSV)
	missing := filepath.Join(dir, "missing.csv")

	out, err := execute(t, "validate", "--json", good, missing)
	assert.Equal(t, exitRejected, exitCode(err))

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)

	var first fileReport
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, good, first.File)
	assert.True(t, first.Outcome.Accepted)
	assert.Equal(t, 2, first.Outcome.RecordsProcessed)

	var second fileReport
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.NotEmpty(t, second.Error)
}

func TestValidate_MaxSize(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.csv", goodCSV)

	out, err := execute(t, "validate", "--max-size", "10", good)
	assert.Equal(t, exitRejected, exitCode(err))
	assert.Contains(t, out, "file too large")
}

func TestValidate_RequiresFiles(t *testing.T) {
	_, err := execute(t, "validate")
	require.Error(t, err)
	assert.Equal(t, exitUsage, exitCode(err))
}

func TestReadings(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.csv", goodCSV)

	out, err := execute(t, "readings", good)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)

	var r ingest.SensorReading
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &r))
	assert.Equal(t, "2004-03-10", r.Date)
	assert.Equal(t, 2.6, r.COGT)
	assert.Equal(t, 48.9, r.RH)
}

func TestReadings_OnlyDefaulted(t *testing.T) {
	dir := t.TempDir()
	content := "Date,Time,CO(GT),PT08.S1(CO),NMHC(GT),C6H6(GT),PT08.S2(NMHC),NOx(GT)," +
		"PT08.S3(NOx),NO2(GT),PT08.S4(NO2),PT08.S5(O3),T,RH,AH\n" +
		"2004-03-10,18:00:00,2.6,1360,150,11.9,1046,166,1056,113,1692,1268,13.6,48.9,0.7578\n" +
		"2004-03-10,19:00:00,2,1292,112,9.4,955,103,1174,92,1559,972,13.3,,0.7255\n"
	path := writeFile(t, dir, "full.csv", content)

	out, err := execute(t, "readings", "--only-defaulted", path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 1)

	var r ingest.SensorReading
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &r))
	assert.Equal(t, "19:00:00", r.Time)
	assert.Equal(t, []ingest.HeaderKey{"rh"}, r.Defaulted)
}

func TestReadings_Rejected(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.csv", badCSV)

	out, err := execute(t, "readings", bad)
	require.Error(t, err)
	assert.Equal(t, exitRejected, exitCode(err))
	assert.ErrorIs(t, err, ingest.ErrNoValidRows)
	assert.Empty(t, out)
}
