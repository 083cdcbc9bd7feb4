package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectJobsFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"jobs:\n"+
			"  - url: https://example.gov/a.pdf\n"+
			"    platform: chicago\n"+
			"  - file: /tmp/b.pdf\n"), 0o644))

	jobs, err := collectJobs("", "", path, "")
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "https://example.gov/a.pdf", jobs[0].URL)
	assert.Equal(t, "chicago", jobs[0].Platform)
	assert.Equal(t, "/tmp/b.pdf", jobs[1].File)
}

func TestCollectJobsSingleURL(t *testing.T) {
	jobs, err := collectJobs("https://example.gov/a.pdf", "", "", "menlopark")
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "menlopark", jobs[0].Platform)
}

func TestCollectJobsRequiresInput(t *testing.T) {
	_, err := collectJobs("", "", "", "")
	assert.Error(t, err)
}

func TestCollectJobsEmptyBatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, []byte("jobs: []\n"), 0o644))

	_, err := collectJobs("", "", path, "")
	assert.Error(t, err)
}
