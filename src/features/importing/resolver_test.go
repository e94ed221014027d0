package importing

import (
	"context"
	"errors"
	"testing"

	"github.com/contre95/rawsolid/src/photo"
)

func TestDateResolver(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		toolErr error
		want    photo.CaptureDate
		kind    photo.ErrorKind
	}{
		{name: "exif timestamp", output: "2023:07:14 10:22:01", want: photo.CaptureDate{Year: 2023, Month: 7, Day: 14}},
		{name: "first match wins", output: "x 2019:01:02 and 2020:03:04", want: photo.CaptureDate{Year: 2019, Month: 1, Day: 2}},
		{name: "no calendar check", output: "2023:13:45 00:00:00", want: photo.CaptureDate{Year: 2023, Month: 13, Day: 45}},
		{name: "empty output", output: "", kind: photo.KindDateNotFound},
		{name: "dashes are not accepted", output: "2023-07-14", kind: photo.KindDateNotFound},
		{name: "plain tool error", toolErr: errors.New("exec: not found"), kind: photo.KindToolInvocationFailed},
		{name: "typed tool error", toolErr: photo.NewError(photo.KindToolTimeout, "a", errors.New("slow")), kind: photo.KindToolTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewDateResolver(&mockTool{dates: map[string]string{"a.cr2": tt.output}, err: tt.toolErr})
			got, err := r.Resolve(context.Background(), "/card/a.cr2")
			if tt.kind != "" {
				if photo.KindOf(err) != tt.kind {
					t.Fatalf("expected %s, got %v", tt.kind, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestDateResolver_DateNotFoundKeepsOutput(t *testing.T) {
	r := NewDateResolver(&mockTool{dates: map[string]string{"a.cr2": "garbage"}})
	_, err := r.Resolve(context.Background(), "/card/a.cr2")
	var pe *photo.Error
	if !errors.As(err, &pe) || pe.Output != "garbage" {
		t.Errorf("expected output kept, got %+v", pe)
	}
}
