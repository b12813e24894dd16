package cmd

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mlihgenel/videotrim-cli/internal/export"
	"github.com/mlihgenel/videotrim-cli/internal/media"
	"github.com/mlihgenel/videotrim-cli/internal/store"
	"github.com/mlihgenel/videotrim-cli/internal/thumbnail"
	"github.com/mlihgenel/videotrim-cli/internal/timeutil"
)

func withOutputDir(t *testing.T, dir string) {
	t.Helper()
	prev := outputDir
	outputDir = dir
	t.Cleanup(func() { outputDir = prev })
}

func TestBuildExportJobs(t *testing.T) {
	withOutputDir(t, "/out")
	records := []store.ProjectRecord{
		{ID: "a", Name: "tatil", OriginalName: "tatil.mov", IsLoaded: true, TrimStartMs: 0, TrimEndMs: 5000},
		{ID: "b", Name: "taslak", OriginalName: "taslak.mp4"},
	}

	jobs, byID := buildExportJobs(records, exportOptions{Format: "mp4"}, "")
	if len(byID) != 2 || byID["a"].OriginalName != "tatil.mov" {
		t.Fatalf("unexpected record index: %+v", byID)
	}

	got := make([][3]string, 0, len(jobs))
	for _, j := range jobs {
		got = append(got, [3]string{j.ProjectID, j.OutputPath, j.SkipReason})
	}
	want := [][3]string{
		{"a", filepath.Join("/out", "tatil_trim.mp4"), ""},
		{"b", filepath.Join("/out", "taslak_trim.mp4"), "no_range"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected jobs (-want +got):\n%s", diff)
	}
}

func TestOverrideRangeValidatesAndStores(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	rec := store.ProjectRecord{ID: "p1", Name: "tatil", DurationMs: 60000, TrimEndMs: 60000, IsLoaded: true}
	if err := st.StoreProject(ctx, rec); err != nil {
		t.Fatalf("store failed: %v", err)
	}

	updated, err := overrideRange(ctx, st, rec, "00:05", "1:30")
	if err != nil {
		t.Fatalf("overrideRange failed: %v", err)
	}
	if updated.TrimStartMs != 5000 || updated.TrimEndMs != 60000 {
		t.Fatalf("end should be clamped to duration: %+v", updated)
	}
	stored, _ := st.GetProject(ctx, "p1")
	if stored == nil || stored.TrimStartMs != 5000 {
		t.Fatalf("expected stored override, got %+v", stored)
	}

	if _, err := overrideRange(ctx, st, rec, "20", "10"); err == nil {
		t.Fatalf("expected error for inverted range")
	}
	if _, err := overrideRange(ctx, st, rec, "abc", ""); err == nil {
		t.Fatalf("expected parse error")
	}
	if _, err := overrideRange(ctx, st, store.ProjectRecord{ID: "x"}, "1", "2"); err == nil {
		t.Fatalf("expected error for unloaded project")
	}
}

func TestSelectRecords(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	for _, id := range []string{"a", "b"} {
		if err := st.StoreProject(ctx, store.ProjectRecord{ID: id, Name: id}); err != nil {
			t.Fatalf("store failed: %v", err)
		}
	}

	all, err := selectRecords(ctx, st, nil)
	if err != nil || len(all) != 2 {
		t.Fatalf("expected all records, got %d (%v)", len(all), err)
	}
	one, err := selectRecords(ctx, st, []string{"b"})
	if err != nil || len(one) != 1 || one[0].ID != "b" {
		t.Fatalf("unexpected selection: %+v (%v)", one, err)
	}
	if _, err := selectRecords(ctx, st, []string{"c"}); err == nil {
		t.Fatalf("expected error for unknown id")
	}
}

func TestExportOptionsValidate(t *testing.T) {
	valid := exportOptions{Codec: "copy", Quality: 80, Metadata: "strip"}
	if err := valid.validate(); err != nil {
		t.Fatalf("expected valid options: %v", err)
	}
	for _, o := range []exportOptions{
		{Codec: "h265"},
		{Quality: 101},
		{Metadata: "keep"},
	} {
		if err := o.validate(); err == nil {
			t.Fatalf("expected validation error for %+v", o)
		}
	}
	if got := (exportOptions{}).targetFormat("klip.MOV"); got != "mov" {
		t.Fatalf("expected source format, got %s", got)
	}
}

func TestStoryboardRange(t *testing.T) {
	r, err := storyboardRange(nil, 90, "", "")
	if err != nil || r != (timeutil.Range{Start: 0, End: 90}) {
		t.Fatalf("expected full range, got %+v (%v)", r, err)
	}

	rec := &store.ProjectRecord{IsLoaded: true, TrimStartMs: 10000, TrimEndMs: 20000}
	r, err = storyboardRange(rec, 90, "", "")
	if err != nil || r != (timeutil.Range{Start: 10, End: 20}) {
		t.Fatalf("expected stored range, got %+v (%v)", r, err)
	}

	r, err = storyboardRange(rec, 90, "", "01:00")
	if err != nil || r.End != 60 || r.Start != 10 {
		t.Fatalf("expected flag to override end, got %+v (%v)", r, err)
	}
	if _, err := storyboardRange(nil, 90, "50", "40"); err == nil {
		t.Fatalf("expected error for inverted range")
	}
}

func TestStoryboardPath(t *testing.T) {
	withOutputDir(t, "")
	if got := storyboardPath("klip.mp4", "/videos", ""); got != filepath.Join("/videos", "klip_storyboard.pdf") {
		t.Fatalf("unexpected default path: %s", got)
	}
	withOutputDir(t, "/out")
	if got := storyboardPath("klip.mp4", "/videos", "ozet"); got != filepath.Join("/out", "ozet.pdf") {
		t.Fatalf("unexpected custom path: %s", got)
	}
}

func TestWriteThumbnails(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "kareler")
	thumbs := make([]thumbnail.Thumbnail, 3)
	for i := range thumbs {
		thumbs[i] = thumbnail.Thumbnail{ImageData: []byte{byte(i)}}
	}

	paths, err := writeThumbnails(thumbs, dir, "klip.mp4", export.ConflictOverwrite)
	if err != nil {
		t.Fatalf("writeThumbnails failed: %v", err)
	}
	want := []string{
		filepath.Join(dir, "klip_thumb_01.jpg"),
		filepath.Join(dir, "klip_thumb_02.jpg"),
		filepath.Join(dir, "klip_thumb_03.jpg"),
	}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Fatalf("unexpected paths (-want +got):\n%s", diff)
	}
	if data, err := os.ReadFile(paths[2]); err != nil || len(data) != 1 || data[0] != 2 {
		t.Fatalf("unexpected thumbnail content: %v %v", data, err)
	}

	skipped, err := writeThumbnails(thumbs, dir, "klip.mp4", export.ConflictSkip)
	if err != nil || len(skipped) != 0 {
		t.Fatalf("existing files should be skipped: %v %v", skipped, err)
	}
}

func TestThumbnailFileNamePadding(t *testing.T) {
	if got := thumbnailFileName("a", 4, 120); got != "a_thumb_005.jpg" {
		t.Fatalf("unexpected name: %s", got)
	}
}

func TestDependencyRowsAndWelcome(t *testing.T) {
	tools := []media.ExternalTool{
		{Name: "FFmpeg", Available: true, Path: "/usr/bin/ffmpeg", Version: "ffmpeg version 7.1"},
		{Name: "FFprobe"},
	}
	want := [][]string{
		{"FFmpeg", "✓ /usr/bin/ffmpeg", "ffmpeg version 7.1"},
		{"FFprobe", "✗ bulunamadı", "-"},
	}
	if diff := cmp.Diff(want, dependencyRows(tools)); diff != "" {
		t.Fatalf("unexpected rows (-want +got):\n%s", diff)
	}

	text := renderWelcome(tools)
	if !strings.Contains(text, "FFprobe bulunamadı") || !strings.Contains(text, "brew install ffmpeg") {
		t.Fatalf("welcome should list missing tools: %q", text)
	}
}
