package importing

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/contre95/rawsolid/src/photo"
)

// ResultOK labels a successful file for a Recorder.
const ResultOK = "ok"

var errNoConverter = errors.New("no conversion tool configured")

// Recorder observes per-file import outcomes.
type Recorder interface {
	ImportFile(result string, elapsed time.Duration)
}

// Organizer places source files into date buckets below a destination root.
type Organizer struct {
	resolver  *DateResolver
	files     FileOrganizer
	converter photo.ConversionTool
	recorder  Recorder
	layout    photo.SubfolderLayout
	workers   int
}

// OrganizerOption configures an Organizer.
type OrganizerOption func(*Organizer)

// WithLayout selects the bucket directory layout.
func WithLayout(layout photo.SubfolderLayout) OrganizerOption {
	return func(o *Organizer) { o.layout = layout }
}

// WithWorkers processes up to n files at once.
func WithWorkers(n int) OrganizerOption {
	return func(o *Organizer) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithRecorder reports every outcome to r.
func WithRecorder(r Recorder) OrganizerOption {
	return func(o *Organizer) { o.recorder = r }
}

// NewOrganizer creates an Organizer. converter may be nil when conversion is never requested.
func NewOrganizer(resolver *DateResolver, files FileOrganizer, converter photo.ConversionTool, opts ...OrganizerOption) *Organizer {
	o := &Organizer{
		resolver:  resolver,
		files:     files,
		converter: converter,
		layout:    photo.LayoutISO,
		workers:   1,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run organizes every source of job. A failing file never stops the batch;
// each source gets exactly one result, in source order.
func (o *Organizer) Run(ctx context.Context, job photo.ImportJob) photo.ImportReport {
	return o.RunWithProgress(ctx, job, nil)
}

// RunWithProgress is Run with a callback after each file. Calls are serialized.
func (o *Organizer) RunWithProgress(ctx context.Context, job photo.ImportJob, progress func(done, total int, res photo.FileResult)) photo.ImportReport {
	results := make([]photo.FileResult, len(job.Sources))
	total := len(job.Sources)
	done := 0
	report := func(i int, res photo.FileResult) {
		results[i] = res
		done++
		if progress != nil {
			progress(done, total, res)
		}
	}

	if o.workers <= 1 {
		for i, src := range job.Sources {
			report(i, o.organizeOne(ctx, src, job))
		}
		return photo.ImportReport{Results: results}
	}

	resultsCh := make(chan indexedResult)
	var g errgroup.Group
	g.SetLimit(o.workers)
	go func() {
		for i, src := range job.Sources {
			g.Go(func() error {
				resultsCh <- indexedResult{i: i, res: o.organizeOne(ctx, src, job)}
				return nil
			})
		}
		_ = g.Wait()
		close(resultsCh)
	}()
	for r := range resultsCh {
		report(r.i, r.res)
	}
	return photo.ImportReport{Results: results}
}

type indexedResult struct {
	i   int
	res photo.FileResult
}

func (o *Organizer) organizeOne(ctx context.Context, src string, job photo.ImportJob) photo.FileResult {
	if err := ctx.Err(); err != nil {
		return photo.FileResult{Source: src, Err: err}
	}
	start := time.Now()
	res := o.organize(ctx, src, job)
	if o.recorder != nil {
		result := ResultOK
		if !res.OK() {
			result = string(res.Kind())
		}
		o.recorder.ImportFile(result, time.Since(start))
	}
	if res.OK() {
		slog.Debug("File organized", "source", src, "destination", res.Destination)
	} else {
		slog.Warn("File import failed", "source", src, "kind", res.Kind(), "error", res.Err)
	}
	return res
}

func (o *Organizer) organize(ctx context.Context, src string, job photo.ImportJob) photo.FileResult {
	res := photo.FileResult{Source: src}

	date, err := o.resolver.Resolve(ctx, src)
	if err != nil {
		res.Err = err
		return res
	}
	res.Date = date.String()

	bucket := filepath.Join(job.DestinationRoot, date.Format(o.layout))
	if err := o.files.EnsureDir(ctx, bucket); err != nil {
		res.Err = photo.NewError(photo.KindDestinationUnavailable, bucket, err)
		return res
	}

	if job.Convert {
		if err := o.convert(ctx, src, bucket); err != nil {
			res.Err = err
			return res
		}
		res.Destination = bucket
	} else {
		dst, err := o.files.CopyInto(ctx, src, bucket)
		if err != nil {
			res.Err = photo.NewError(photo.KindCopyFailed, src, err)
			return res
		}
		res.Destination = dst
	}

	if job.DeleteOriginals {
		// The placed file stays even if this fails.
		if err := o.files.Delete(ctx, src); err != nil {
			res.Err = photo.NewError(photo.KindDeleteFailed, src, err)
		}
	}
	return res
}

func (o *Organizer) convert(ctx context.Context, src, bucket string) error {
	if o.converter == nil {
		return photo.NewError(photo.KindConversionFailed, src, errNoConverter)
	}
	err := o.converter.Convert(ctx, src, bucket)
	if err == nil {
		return nil
	}
	if errors.Is(err, photo.ErrToolTimeout) {
		return err
	}
	e := photo.NewError(photo.KindConversionFailed, src, err)
	var toolErr *photo.Error
	if errors.As(err, &toolErr) {
		e.Output = toolErr.Output
	}
	return e
}
