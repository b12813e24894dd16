package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mlihgenel/videotrim-cli/internal/export"
)

// Job kayıtlı bir projenin dışa aktarma işini temsil eder
type Job struct {
	ProjectID  string
	Name       string
	OutputPath string
	SkipReason string
}

// RunFunc tek bir işi çalıştırır ve yazılan yolu döner.
type RunFunc func(ctx context.Context, job Job) (string, error)

// JobResult bir işin sonucunu tutar
type JobResult struct {
	Job        Job
	Success    bool
	Skipped    bool
	Attempts   int
	Written    string
	OutputSize int64
	SkipReason string
	Error      error
	Duration   time.Duration
}

// Pool worker pool'u yönetir
type Pool struct {
	Workers    int
	RetryMax   int
	RetryDelay time.Duration
	Run        RunFunc
	Results    []JobResult
	mu         sync.Mutex
	processed  atomic.Int64
	totalJobs  int
	OnProgress func(completed, total int) // İlerleme callback'i
}

// NewPool yeni bir worker pool oluşturur
func NewPool(workers int, run RunFunc) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	// ffmpeg süreçleri CPU yoğun; çok fazla worker açmayı engelle
	maxWorkers := runtime.NumCPU() * 2
	if workers > maxWorkers {
		workers = maxWorkers
	}

	return &Pool{
		Workers:    workers,
		RetryDelay: 500 * time.Millisecond,
		Run:        run,
	}
}

// SetRetry retry davranışını ayarlar.
func (p *Pool) SetRetry(max int, delay time.Duration) {
	if max < 0 {
		max = 0
	}
	p.RetryMax = max

	if delay >= 0 {
		p.RetryDelay = delay
	}
}

// Execute verilen işleri paralel olarak çalıştırır
func (p *Pool) Execute(ctx context.Context, jobs []Job) []JobResult {
	p.totalJobs = len(jobs)
	p.Results = make([]JobResult, 0, len(jobs))
	p.processed.Store(0)

	if len(jobs) == 0 {
		return p.Results
	}

	workers := p.Workers
	if workers > len(jobs) {
		workers = len(jobs)
	}
	if workers <= 0 {
		workers = 1
	}

	jobChan := make(chan Job, len(jobs))
	resultChan := make(chan JobResult, len(jobs))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobChan {
				resultChan <- p.processJob(ctx, job)
			}
		}()
	}

	go func() {
		for _, job := range jobs {
			jobChan <- job
		}
		close(jobChan)
	}()

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	for result := range resultChan {
		p.mu.Lock()
		p.Results = append(p.Results, result)
		p.mu.Unlock()

		completed := int(p.processed.Add(1))
		if p.OnProgress != nil {
			p.OnProgress(completed, p.totalJobs)
		}
	}

	return p.Results
}

// processJob tek bir dışa aktarma işini gerçekleştirir
func (p *Pool) processJob(ctx context.Context, job Job) JobResult {
	start := time.Now()

	if job.SkipReason != "" {
		return JobResult{
			Job:        job,
			Skipped:    true,
			SkipReason: job.SkipReason,
			Duration:   time.Since(start),
		}
	}
	if p.Run == nil {
		return JobResult{
			Job:      job,
			Attempts: 1,
			Error:    errors.New("iş çalıştırıcısı tanımlı değil"),
			Duration: time.Since(start),
		}
	}

	if err := os.MkdirAll(filepath.Dir(job.OutputPath), 0755); err != nil {
		return JobResult{
			Job:      job,
			Attempts: 1,
			Error:    fmt.Errorf("çıktı dizini oluşturulamadı: %w", err),
			Duration: time.Since(start),
		}
	}

	var lastErr error
	attempts := p.RetryMax + 1
	if attempts <= 0 {
		attempts = 1
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		written, err := p.Run(ctx, job)
		if err == nil {
			size := int64(0)
			if info, statErr := os.Stat(written); statErr == nil {
				size = info.Size()
			}
			return JobResult{
				Job:        job,
				Success:    true,
				Attempts:   attempt,
				Written:    written,
				OutputSize: size,
				Duration:   time.Since(start),
			}
		}
		if errors.Is(err, export.ErrSkipped) {
			return JobResult{
				Job:        job,
				Skipped:    true,
				Attempts:   attempt,
				SkipReason: "output_exists",
				Duration:   time.Since(start),
			}
		}

		lastErr = err
		if ctx.Err() != nil {
			return JobResult{Job: job, Attempts: attempt, Error: ctx.Err(), Duration: time.Since(start)}
		}
		if attempt < attempts && p.RetryDelay > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(p.RetryDelay):
			}
		}
	}

	return JobResult{
		Job:      job,
		Attempts: attempts,
		Error:    lastErr,
		Duration: time.Since(start),
	}
}

// Summary toplu iş sonuçlarını özetler
type Summary struct {
	Total     int
	Succeeded int
	Skipped   int
	Failed    int
	Duration  time.Duration
	Errors    []JobError
}

// JobError başarısız olan bir işin hata bilgisi
type JobError struct {
	Project  string
	Error    string
	Attempts int
}

// GetSummary iş sonuçlarından özet oluşturur
func GetSummary(results []JobResult, totalDuration time.Duration) Summary {
	s := Summary{
		Total:    len(results),
		Duration: totalDuration,
	}

	for _, r := range results {
		if r.Success {
			s.Succeeded++
		} else if r.Skipped {
			s.Skipped++
		} else {
			s.Failed++
			msg := "bilinmeyen hata"
			if r.Error != nil {
				msg = r.Error.Error()
			}
			s.Errors = append(s.Errors, JobError{
				Project:  r.Job.label(),
				Error:    msg,
				Attempts: r.Attempts,
			})
		}
	}

	return s
}

func (j Job) label() string {
	if j.Name != "" {
		return j.Name
	}
	return j.ProjectID
}
