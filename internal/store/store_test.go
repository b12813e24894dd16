package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func openStores(t *testing.T) map[string]Store {
	t.Helper()
	sqliteStore, err := OpenSQLite(filepath.Join(t.TempDir(), "db", "videotrim.db"))
	if err != nil {
		t.Fatalf("sqlite store açılamadı: %v", err)
	}
	t.Cleanup(func() { _ = sqliteStore.Close() })
	return map[string]Store{
		"sqlite": sqliteStore,
		"memory": NewMemoryStore(),
	}
}

func sampleProject(id string, modified time.Time) ProjectRecord {
	return ProjectRecord{
		ID:            id,
		Name:          "tatil",
		OriginalName:  "tatil.mp4",
		DurationMs:    125250,
		CreatedAt:     modified.Add(-time.Hour),
		LastModified:  modified,
		TrimStartMs:   1500,
		TrimEndMs:     90001,
		CurrentTimeMs: 42042,
		IsLoaded:      true,
	}
}

func TestProjectRoundTrip(t *testing.T) {
	ctx := context.Background()
	base := time.UnixMilli(1_700_000_000_123)
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			rec := sampleProject("p1", base)
			if err := s.StoreProject(ctx, rec); err != nil {
				t.Fatalf("store failed: %v", err)
			}
			got, err := s.GetProject(ctx, "p1")
			if err != nil || got == nil {
				t.Fatalf("get failed: %v %v", got, err)
			}
			if diff := cmp.Diff(rec, *got); diff != "" {
				t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMissingRecordsReturnNil(t *testing.T) {
	ctx := context.Background()
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			rec, err := s.GetProject(ctx, "yok")
			if err != nil || rec != nil {
				t.Fatalf("expected nil project, got %v %v", rec, err)
			}
			data, err := s.GetVideo(ctx, "yok")
			if err != nil || data != nil {
				t.Fatalf("expected nil video, got %v %v", data, err)
			}
			if err := s.DeleteProject(ctx, "yok"); err != nil {
				t.Fatalf("deleting missing project must not fail: %v", err)
			}
		})
	}
}

func TestUpsertKeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	base := time.UnixMilli(1_700_000_000_000)
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			rec := sampleProject("p1", base)
			_ = s.StoreProject(ctx, rec)

			updated := rec
			updated.CreatedAt = base.Add(24 * time.Hour)
			updated.LastModified = base.Add(time.Minute)
			updated.TrimStartMs = 2000
			if err := s.StoreProject(ctx, updated); err != nil {
				t.Fatalf("update failed: %v", err)
			}

			got, _ := s.GetProject(ctx, "p1")
			if !got.CreatedAt.Equal(rec.CreatedAt) || got.TrimStartMs != 2000 {
				t.Fatalf("unexpected record after upsert: %+v", got)
			}
		})
	}
}

func TestListOrderedByLastModified(t *testing.T) {
	ctx := context.Background()
	base := time.UnixMilli(1_700_000_000_000)
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			_ = s.StoreProject(ctx, sampleProject("eski", base))
			_ = s.StoreProject(ctx, sampleProject("yeni", base.Add(time.Hour)))
			_ = s.StoreProject(ctx, sampleProject("orta", base.Add(time.Minute)))

			all, err := s.GetAllProjects(ctx)
			if err != nil {
				t.Fatalf("list failed: %v", err)
			}
			var ids []string
			for _, rec := range all {
				ids = append(ids, rec.ID)
			}
			if diff := cmp.Diff([]string{"yeni", "orta", "eski"}, ids); diff != "" {
				t.Fatalf("unexpected order (-want +got):\n%s", diff)
			}

			if err := s.DeleteProject(ctx, "orta"); err != nil {
				t.Fatalf("delete failed: %v", err)
			}
			all, _ = s.GetAllProjects(ctx)
			if len(all) != 2 {
				t.Fatalf("expected 2 projects after delete, got %d", len(all))
			}
		})
	}
}

func TestVideoBlobsAndInfo(t *testing.T) {
	ctx := context.Background()
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			payload := []byte("sahte video verisi")
			if err := s.StoreVideo(ctx, "v1", payload, "klip.mp4"); err != nil {
				t.Fatalf("store video failed: %v", err)
			}
			_ = s.StoreProject(ctx, sampleProject("v1", time.UnixMilli(1)))

			got, err := s.GetVideo(ctx, "v1")
			if err != nil || string(got) != string(payload) {
				t.Fatalf("unexpected blob: %q %v", got, err)
			}

			info, err := s.Info(ctx)
			if err != nil {
				t.Fatalf("info failed: %v", err)
			}
			if info.UsedBytes != int64(len(payload)) || info.VideoCount != 1 || info.ProjectCount != 1 {
				t.Fatalf("unexpected info: %+v", info)
			}

			if err := s.DeleteVideo(ctx, "v1"); err != nil {
				t.Fatalf("delete video failed: %v", err)
			}
			if got, _ := s.GetVideo(ctx, "v1"); got != nil {
				t.Fatalf("expected deleted blob")
			}
		})
	}
}

func TestSQLiteReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "videotrim.db")
	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	_ = s.StoreProject(ctx, sampleProject("kalici", time.UnixMilli(5000)))
	_ = s.Close()

	s, err = OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s.Close()
	rec, err := s.GetProject(ctx, "kalici")
	if err != nil || rec == nil || rec.TrimEndMs != 90001 {
		t.Fatalf("expected persisted project, got %+v %v", rec, err)
	}
}

func TestClosedStoreReturnsTypedError(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "videotrim.db"))
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	_ = s.Close()

	_, err = s.GetAllProjects(context.Background())
	var storeErr *Error
	if !errors.As(err, &storeErr) || storeErr.Op != "list-projects" {
		t.Fatalf("expected typed store error, got %v", err)
	}
}
