package photo

import "context"

// MetadataTool reads embedded metadata and previews from camera files.
type MetadataTool interface {
	// ReadTag returns the value of tag in short form.
	ReadTag(ctx context.Context, path, tag string) (string, error)
	// ExtractPreview writes the embedded preview of path into outDir as
	// {stem}_{token}.jpg and returns the written path.
	ExtractPreview(ctx context.Context, path, outDir, stem, token string) (string, error)
}

// ConversionTool converts camera files into a normalized raw format.
type ConversionTool interface {
	// Convert writes the converted form of src into destDir under a name the tool chooses.
	Convert(ctx context.Context, src, destDir string) error
	// Available reports whether the tool can be run on this machine.
	Available(ctx context.Context) bool
}
