package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/hazard-verify-service/internal/adapter/reportstore"
	"github.com/couchcryptid/hazard-verify-service/internal/domain"
)

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

func writeHistory(t *testing.T, reports []domain.Report) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reports.json")
	require.NoError(t, reportstore.WriteHistory(path, reports))
	return path
}

func oilSpillHistory() []domain.Report {
	var rs []domain.Report
	for range 2 {
		rs = append(rs, domain.Report{Type: "oil spill", Pincode: "400001", Description: "slick"})
	}
	for range 3 {
		rs = append(rs, domain.Report{Type: "oil spill", Pincode: "400002", Description: "tar balls"})
	}
	return rs
}

func TestVerifyCmd(t *testing.T) {
	path := writeHistory(t, oilSpillHistory())

	out, err := execute(t, "verify", "--history", path,
		"--type", "oil spill", "--pincode", "400001", "--description", "oil slick near the jetty")
	require.NoError(t, err)

	var result domain.FusedResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.True(t, result.IsHazard)
	assert.InDelta(t, 0.8, result.Confidence, 1e-9)
	assert.Equal(t, 5, result.Components.Counts.TypeCount)
	assert.Equal(t, 2, result.Components.Counts.PairCount)
}

func TestVerifyCmd_NLPKeywordPolicy(t *testing.T) {
	path := writeHistory(t, nil)

	out, err := execute(t, "verify", "--history", path, "--policy", domain.PolicyNLPKeyword,
		"--description", "debris floating everywhere")
	require.NoError(t, err)

	var result domain.FusedResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, domain.PolicyNLPKeyword, result.Policy)
	assert.InDelta(t, 0.4, result.Confidence, 1e-9)
	assert.False(t, result.IsHazard)
}

func TestVerifyCmd_RequiresDescription(t *testing.T) {
	_, err := execute(t, "verify", "--type", "flood")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "description")
}

func TestVerifyCmd_UnknownPolicy(t *testing.T) {
	_, err := execute(t, "verify", "--description", "wave", "--policy", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope")
}

func TestAggregateCmd_Table(t *testing.T) {
	path := writeHistory(t, oilSpillHistory())

	out, err := execute(t, "aggregate", "--history", path)
	require.NoError(t, err)
	assert.Contains(t, out, "oil spill")
	assert.Contains(t, out, "400001")
	assert.Contains(t, out, "0.667")
	assert.Contains(t, out, "2 pairs")
	assert.NotContains(t, out, "2 PAIRS")
}

func TestAggregateCmd_Markdown(t *testing.T) {
	path := writeHistory(t, append(oilSpillHistory(), domain.Report{Type: "flood", Location: "Marina Beach"}))

	out, err := execute(t, "aggregate", "--history", path, "-o", "markdown")
	require.NoError(t, err)
	assert.Contains(t, out, "| oil spill |")
	assert.Contains(t, out, "2 pairs")
	assert.NotContains(t, out, "marina beach")
}

func TestAggregateCmd_JSON(t *testing.T) {
	path := writeHistory(t, oilSpillHistory())

	out, err := execute(t, "aggregate", "--history", path, "-o", "json")
	require.NoError(t, err)

	var body struct {
		Aggregates    []domain.AggregateEntry `json:"aggregates"`
		HistoryStatus domain.HistoryStatus    `json:"historyStatus"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &body))
	assert.Equal(t, domain.HistoryOK, body.HistoryStatus)
	require.Len(t, body.Aggregates, 2)
	assert.Equal(t, 3, body.Aggregates[1].Count)
}

func TestAggregateCmd_MissingHistory(t *testing.T) {
	_, err := execute(t, "aggregate", "--history", filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unavailable")
}

func TestGenmockCmd_Deterministic(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.json")
	b := filepath.Join(dir, "b.json")

	_, err := execute(t, "genmock", "--out", a, "--count", "50", "--seed", "7")
	require.NoError(t, err)
	_, err = execute(t, "genmock", "--out", b, "--count", "50", "--seed", "7")
	require.NoError(t, err)

	dataA, err := os.ReadFile(a)
	require.NoError(t, err)
	dataB, err := os.ReadFile(b)
	require.NoError(t, err)
	assert.Equal(t, dataA, dataB)

	reports, skipped, err := reportstore.ReadHistory(a)
	require.NoError(t, err)
	assert.Zero(t, skipped)
	assert.Len(t, reports, 50)
	assert.Equal(t, "mock-0001", reports[0].ID)
	assert.Less(t, reports[0].CreatedAt, reports[49].CreatedAt)
}

func TestGenmockCmd_SeedsDiffer(t *testing.T) {
	assert.NotEqual(t, generateReports(20, 1), generateReports(20, 2))
}
