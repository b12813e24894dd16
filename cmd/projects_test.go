package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/mlihgenel/videotrim-cli/internal/store"
	"github.com/mlihgenel/videotrim-cli/internal/ui"
)

func captureUI(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := ui.Out
	ui.Out = &buf
	t.Cleanup(func() { ui.Out = prev })
	return &buf
}

func TestProjectRows(t *testing.T) {
	modified := time.Date(2026, 3, 14, 9, 30, 0, 0, time.Local)
	rows := projectRows([]store.ProjectRecord{
		{ID: "a", Name: "tatil", DurationMs: 83500, TrimStartMs: 2500, TrimEndMs: 61250, IsLoaded: true, LastModified: modified},
		{ID: "b", Name: "taslak", LastModified: modified},
	})

	want := [][]string{
		{"a", "tatil", "01:23", "00:02.500 → 01:01.250", "2026-03-14 09:30"},
		{"b", "taslak", "00:00", "-", "2026-03-14 09:30"},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Fatalf("unexpected rows (-want +got):\n%s", diff)
	}
}

func TestFormatBytes(t *testing.T) {
	for _, tc := range []struct {
		n    int64
		want string
	}{
		{512, "512 B"},
		{1536, "1.5 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
	} {
		if got := formatBytes(tc.n); got != tc.want {
			t.Fatalf("formatBytes(%d) = %q, want %q", tc.n, got, tc.want)
		}
	}
}

func TestRemoveProjects(t *testing.T) {
	out := captureUI(t)
	ctx := context.Background()
	st := store.NewMemoryStore()
	if err := st.StoreProject(ctx, store.ProjectRecord{ID: "p1", Name: "tatil"}); err != nil {
		t.Fatalf("store failed: %v", err)
	}
	if err := st.StoreVideo(ctx, "p1", []byte("video"), "tatil.mp4"); err != nil {
		t.Fatalf("store video failed: %v", err)
	}

	err := removeProjects(ctx, st, []string{"p1", "yok"})
	if err == nil || !strings.Contains(err.Error(), "yok") {
		t.Fatalf("expected error naming missing project, got %v", err)
	}
	if rec, _ := st.GetProject(ctx, "p1"); rec != nil {
		t.Fatalf("expected project removed")
	}
	if data, _ := st.GetVideo(ctx, "p1"); data != nil {
		t.Fatalf("expected video removed")
	}
	if !strings.Contains(out.String(), "Silindi: tatil") {
		t.Fatalf("expected success line, got %q", out.String())
	}
}

func TestListProjectsEmpty(t *testing.T) {
	out := captureUI(t)
	if err := listProjects(context.Background(), store.NewMemoryStore()); err != nil {
		t.Fatalf("listProjects failed: %v", err)
	}
	if !strings.Contains(out.String(), "Kayıtlı proje yok") {
		t.Fatalf("expected empty hint, got %q", out.String())
	}
}
