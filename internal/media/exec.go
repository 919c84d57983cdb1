package media

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"expensebot/internal/core"
)

// ExecOCR runs an external OCR command (tesseract by convention) with the
// image path appended and reads the recognized text from stdout.
type ExecOCR struct {
	Command string
	Args    []string
}

func NewExecOCR(command string, args ...string) *ExecOCR {
	return &ExecOCR{Command: command, Args: args}
}

func (o *ExecOCR) ExtractText(ctx context.Context, path string) (string, error) {
	if o.Command == "" {
		return "", fmt.Errorf("ocr command not configured: %w", core.ErrExtractionFailed)
	}
	return runTool(ctx, o.Command, append(o.Args, path))
}

// ExecTranscriber runs an external speech-to-text command with the audio
// path appended and reads the transcript from stdout.
type ExecTranscriber struct {
	Command string
	Args    []string
}

func NewExecTranscriber(command string, args ...string) *ExecTranscriber {
	return &ExecTranscriber{Command: command, Args: args}
}

func (t *ExecTranscriber) Transcribe(ctx context.Context, path string) (string, error) {
	if t.Command == "" {
		return "", fmt.Errorf("transcribe command not configured: %w", core.ErrExtractionFailed)
	}
	return runTool(ctx, t.Command, append(t.Args, path))
}

func runTool(ctx context.Context, command string, args []string) (string, error) {
	cmd := exec.CommandContext(ctx, command, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		slog.ErrorContext(ctx, "Extraction tool failed",
			"command", command,
			"stderr", strings.TrimSpace(stderr.String()),
			"error", err)
		return "", fmt.Errorf("%s: %v: %w", command, err, core.ErrExtractionFailed)
	}

	text := strings.TrimSpace(stdout.String())
	if text == "" {
		return "", fmt.Errorf("%s produced no text: %w", command, core.ErrExtractionFailed)
	}
	return text, nil
}
