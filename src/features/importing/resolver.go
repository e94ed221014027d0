package importing

import (
	"context"
	"errors"

	"github.com/contre95/rawsolid/src/photo"
)

// DateTag is the metadata tag holding the capture time.
const DateTag = "DateTimeOriginal"

var errNoDate = errors.New("no YYYY:MM:DD date in metadata output")

// DateResolver reads the capture date of a file through a metadata tool.
type DateResolver struct {
	tool photo.MetadataTool
}

// NewDateResolver creates a new DateResolver.
func NewDateResolver(tool photo.MetadataTool) *DateResolver {
	return &DateResolver{tool: tool}
}

// Resolve returns the capture day of path. No timezone conversion and no
// calendar validation are applied.
func (r *DateResolver) Resolve(ctx context.Context, path string) (photo.CaptureDate, error) {
	out, err := r.tool.ReadTag(ctx, path, DateTag)
	if err != nil {
		if photo.KindOf(err) != "" {
			return photo.CaptureDate{}, err
		}
		return photo.CaptureDate{}, photo.NewError(photo.KindToolInvocationFailed, path, err)
	}
	date, ok := photo.ParseCaptureDate(out)
	if !ok {
		e := photo.NewError(photo.KindDateNotFound, path, errNoDate)
		e.Output = out
		return photo.CaptureDate{}, e
	}
	return date, nil
}
