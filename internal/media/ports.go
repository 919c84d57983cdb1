// Package media turns photos and voice notes into text the expense parser
// can work on. Extraction runs out of process; the interfaces here keep the
// services testable without the external tools installed.
package media

import "context"

// TextExtractor pulls visible text out of an image file.
type TextExtractor interface {
	ExtractText(ctx context.Context, path string) (string, error)
}

// Transcriber converts a voice recording into text.
type Transcriber interface {
	Transcribe(ctx context.Context, path string) (string, error)
}
