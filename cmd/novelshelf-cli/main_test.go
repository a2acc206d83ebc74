package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vrsandeep/novelshelf/internal/config"
	"github.com/vrsandeep/novelshelf/internal/query"
)

const input = `{"id":"a","title":"Dragon King","like_count":50,"tags":["Fantasy"]}
{"id":"b","title":"Cat Tales","like_count":200,"tags":["fantasy","Comedy"]}
not-json
`

func testConfig(t *testing.T, args ...string) (*config.Config, *options) {
	t.Helper()
	v := config.New()
	opts, err := parseFlags(v, args)
	require.NoError(t, err)
	cfg, err := config.LoadFrom(v)
	require.NoError(t, err)
	return cfg, opts
}

func TestParseFlags(t *testing.T) {
	cfg, opts := testConfig(t, "--source", "-", "--page-size", "3", "--search", "drag",
		"--tag", "fantasy", "--tag", "action", "--min-chapters", "10", "--max-chapters", "5",
		"--sort", "relevance", "--dir", "asc", "--adult", "exclude", "-p", "2")

	assert.Equal(t, "-", cfg.Catalog.SourcePath)
	assert.Equal(t, 3, cfg.Catalog.PageSize)
	assert.Equal(t, "./novelpia_covers", cfg.Catalog.CoversPath, "unset flags keep config defaults")
	assert.Equal(t, "drag", opts.filter.Search)
	assert.Equal(t, []string{"fantasy", "action"}, opts.filter.Tags)
	require.NotNil(t, opts.filter.Chapters.Min)
	assert.Equal(t, 10, *opts.filter.Chapters.Min)
	assert.Nil(t, opts.filter.Likes.Min)
	assert.Equal(t, query.Sort{Key: query.SortRelevance, Dir: query.Asc}, opts.sort)
	assert.Equal(t, query.AdultExclude, opts.filter.Adult)
	assert.Equal(t, 2, opts.page)
}

func TestRun_StdinTable(t *testing.T) {
	cfg, opts := testConfig(t, "--source", "-")
	var out, errOut bytes.Buffer

	require.NoError(t, run(cfg, opts, strings.NewReader(input), &out, &errOut))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.True(t, strings.HasPrefix(lines[1], "b "), "likes desc puts b first")
	assert.True(t, strings.HasPrefix(lines[2], "a "))
	assert.Equal(t, "Page 1 of 1 (2 novels)", lines[3])
	assert.Contains(t, errOut.String(), "Import complete! Total novels: 2 (1 lines skipped)")
}

func TestRun_JSONAndTags(t *testing.T) {
	cfg, opts := testConfig(t, "--source", "-", "--json", "--tags")
	var out, errOut bytes.Buffer

	require.NoError(t, run(cfg, opts, strings.NewReader(input), &out, &errOut))

	var tags []struct {
		Tag   string `json:"tag"`
		Count int    `json:"count"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &tags))
	require.Len(t, tags, 2)
	assert.Equal(t, "fantasy", tags[0].Tag)
	assert.Equal(t, 2, tags[0].Count)
}

func TestRun_PageOutOfRange(t *testing.T) {
	cfg, opts := testConfig(t, "--source", "-", "-p", "9")
	var out, errOut bytes.Buffer
	err := run(cfg, opts, strings.NewReader(input), &out, &errOut)
	assert.Error(t, err)
}

func TestRun_MissingSource(t *testing.T) {
	cfg, opts := testConfig(t, "--source", t.TempDir()+"/missing.jsonl")
	var out, errOut bytes.Buffer
	err := run(cfg, opts, strings.NewReader(""), &out, &errOut)
	assert.Error(t, err)
}

// fakeDownloader writes its arguments to the -output path.
func fakeDownloader(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}
	path := filepath.Join(t.TempDir(), "NovelpiaDownloader")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\necho \"$@\" > \"$6\"\n"), 0755))
	return path
}

func TestRun_DownloadNamedAfterCatalogTitle(t *testing.T) {
	out := t.TempDir()
	cfg, opts := testConfig(t, "--source", "-", "--download", "b",
		"--downloader", fakeDownloader(t), "--output", out)
	var stdout, stderr bytes.Buffer

	require.NoError(t, run(cfg, opts, strings.NewReader(input), &stdout, &stderr))

	want := filepath.Join(out, "Cat Tales.html")
	assert.FileExists(t, want)
	assert.Contains(t, stdout.String(), want)
}

func TestRun_DownloadTitleFlag(t *testing.T) {
	out := t.TempDir()
	cfg, opts := testConfig(t, "--source", "-", "--download", "b", "--title", "Cat: Tales",
		"--downloader", fakeDownloader(t), "--output", out)
	var stdout, stderr bytes.Buffer

	require.NoError(t, run(cfg, opts, strings.NewReader(""), &stdout, &stderr))
	assert.FileExists(t, filepath.Join(out, "Cat_ Tales.html"))
}

func TestRun_DownloadUnknownIDUsesID(t *testing.T) {
	out := t.TempDir()
	cfg, opts := testConfig(t, "--source", "-", "--download", "zzz",
		"--downloader", fakeDownloader(t), "--output", out)
	var stdout, stderr bytes.Buffer

	require.NoError(t, run(cfg, opts, strings.NewReader(input), &stdout, &stderr))
	assert.FileExists(t, filepath.Join(out, "zzz.html"))
}
