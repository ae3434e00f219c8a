package batch

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/unfish/internal/common"
	"github.com/MeKo-Tech/unfish/internal/converter"
)

func sampleResult() *Result {
	stages := common.NewStages()
	timer := common.NewNamedTimer("remap")
	timer.Stop()
	stages.Record(timer)

	return &Result{
		Results: []converter.FileResult{
			{
				Job:    converter.FileJob{Input: "a.png", Output: "a_perspective.png"},
				Result: &converter.Result{MapSize: 256, Stages: stages},
			},
			{
				Job: converter.FileJob{Input: "b.png"},
				Err: errors.New("decode failed"),
			},
		},
		Duration:    2 * time.Second,
		WorkerCount: 2,
	}
}

func TestFormatText(t *testing.T) {
	out, err := sampleResult().FormatResults("text")
	require.NoError(t, err)

	assert.Contains(t, out, "OK   a.png -> a_perspective.png")
	assert.Contains(t, out, "FAIL b.png: decode failed")
	assert.Contains(t, out, "1 converted, 1 failed")
}

func TestFormatJSON(t *testing.T) {
	out, err := sampleResult().FormatResults("json")
	require.NoError(t, err)

	var summary struct {
		Files []struct {
			Input   string `json:"input"`
			Output  string `json:"output"`
			Success bool   `json:"success"`
			MapSize int    `json:"map_size"`
			Error   string `json:"error"`
		} `json:"files"`
		Total     int `json:"total"`
		Succeeded int `json:"succeeded"`
		Failed    int `json:"failed"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &summary))

	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)

	require.Len(t, summary.Files, 2)
	assert.True(t, summary.Files[0].Success)
	assert.Equal(t, "a_perspective.png", summary.Files[0].Output)
	assert.Equal(t, 256, summary.Files[0].MapSize)
	assert.False(t, summary.Files[1].Success)
	assert.Equal(t, "decode failed", summary.Files[1].Error)
}

func TestSucceededFailed(t *testing.T) {
	r := sampleResult()
	assert.Equal(t, 1, r.Succeeded())
	assert.Equal(t, 1, r.Failed())
}
