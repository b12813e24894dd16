// Package store proje kayıtlarını ve video içeriklerini proje kimliğine göre saklar.
//
// Zaman alanları sınırda milisaniye tamsayısıdır; saniye dönüşümü çağıranın işidir.
// Bulunamayan kayıtlar hata değil, nil döner.
package store

import (
	"context"
	"fmt"
	"time"
)

// ProjectRecord kalıcı proje kaydıdır.
type ProjectRecord struct {
	ID            string
	Name          string
	OriginalName  string
	DurationMs    int64
	CreatedAt     time.Time
	LastModified  time.Time
	TrimStartMs   int64
	TrimEndMs     int64
	CurrentTimeMs int64
	IsLoaded      bool
}

// Info depolama kullanım bilgisidir.
type Info struct {
	UsedBytes    int64
	VideoCount   int
	ProjectCount int
}

// Store proje ve video deposu sözleşmesidir.
type Store interface {
	StoreVideo(ctx context.Context, id string, data []byte, filename string) error
	GetVideo(ctx context.Context, id string) ([]byte, error)
	DeleteVideo(ctx context.Context, id string) error
	StoreProject(ctx context.Context, rec ProjectRecord) error
	GetProject(ctx context.Context, id string) (*ProjectRecord, error)
	GetAllProjects(ctx context.Context) ([]ProjectRecord, error)
	DeleteProject(ctx context.Context, id string) error
	Info(ctx context.Context) (Info, error)
	Close() error
}

// Error depolama okuma/yazma hatasıdır.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("depolama hatası (%s): %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}
