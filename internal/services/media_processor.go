package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"expensebot/internal/amqp"
	"expensebot/internal/core"
	"expensebot/internal/media"
)

const defaultMediaTimeout = 30 * time.Second

// MediaProcessor turns photo, voice and payment-screenshot jobs into
// expenses. Extraction runs under a per-job timeout; when the extracted
// text yields no amount the job's caption is tried before giving up.
type MediaProcessor struct {
	ocr         media.TextExtractor
	transcriber media.Transcriber
	service     *ExpenseService
	timeout     time.Duration
}

func NewMediaProcessor(service *ExpenseService, ocr media.TextExtractor, transcriber media.Transcriber, timeout time.Duration) *MediaProcessor {
	if timeout <= 0 {
		timeout = defaultMediaTimeout
	}
	return &MediaProcessor{
		ocr:         ocr,
		transcriber: transcriber,
		service:     service,
		timeout:     timeout,
	}
}

// ProcessJob extracts text from the job's file and ingests it as an expense.
func (p *MediaProcessor) ProcessJob(ctx context.Context, job *amqp.MediaJob) (*IngestResult, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	var (
		text   string
		source core.Source
		err    error
	)
	switch job.Kind {
	case amqp.MediaPhoto:
		source = core.SourcePhotoOCR
		text, err = p.extract(ctx, p.ocr, job.FilePath)
	case amqp.MediaPaymentScreenshot:
		source = core.SourcePaymentScreenshot
		text, err = p.extract(ctx, p.ocr, job.FilePath)
	case amqp.MediaVoice:
		source = core.SourceVoice
		text, err = p.transcribe(ctx, job.FilePath)
	default:
		return nil, fmt.Errorf("unknown media kind %q: %w", job.Kind, amqp.ErrBadMessage)
	}
	if err != nil {
		// A job that failed extraction fails the same way on redelivery:
		// a missing engine or an unreadable file does not fix itself.
		// Timed-out jobs stay retryable.
		if errors.Is(err, core.ErrExtractionFailed) && ctx.Err() == nil {
			return nil, fmt.Errorf("%w: %w", err, amqp.ErrBadMessage)
		}
		return nil, err
	}

	var payment *core.PaymentDetails
	if job.Kind == amqp.MediaPaymentScreenshot {
		payment = parsePaymentDetails(text, job.Caption)
	}

	result, err := p.service.Ingest(ctx, job.UserID, text, source, payment, job.Timestamp)
	if errors.Is(err, core.ErrNoAmountFound) && job.Caption != "" {
		slog.InfoContext(ctx, "No amount in extracted text, falling back to caption",
			"user_id", job.UserID,
			"kind", string(job.Kind))
		result, err = p.service.Ingest(ctx, job.UserID, job.Caption, source, payment, job.Timestamp)
	}
	if err != nil {
		return nil, fmt.Errorf("ingest %s job: %w", job.Kind, err)
	}
	return result, nil
}

func (p *MediaProcessor) extract(ctx context.Context, ocr media.TextExtractor, path string) (string, error) {
	if ocr == nil {
		return "", fmt.Errorf("no OCR extractor configured: %w", core.ErrExtractionFailed)
	}
	text, err := ocr.ExtractText(ctx, path)
	if err != nil {
		return "", fmt.Errorf("extract text from %s: %w", path, err)
	}
	return text, nil
}

func (p *MediaProcessor) transcribe(ctx context.Context, path string) (string, error) {
	if p.transcriber == nil {
		return "", fmt.Errorf("no transcriber configured: %w", core.ErrExtractionFailed)
	}
	text, err := p.transcriber.Transcribe(ctx, path)
	if err != nil {
		return "", fmt.Errorf("transcribe %s: %w", path, err)
	}
	return text, nil
}

// Labelled payment metadata in OCR output or captions: "TXID: 9982731",
// "Account: HDFC Savings", "Method: UPI". Values run to the end of the line.
var (
	txidPattern    = regexp.MustCompile(`(?im)\b(?:txid|transaction id)\s*:\s*(\S+)`)
	accountPattern = regexp.MustCompile(`(?im)\baccount\s*:\s*([^\n]+)`)
	methodPattern  = regexp.MustCompile(`(?im)\bmethod\s*:\s*([^\n]+)`)
)

// parsePaymentDetails scans OCR output and the caption for labelled payment
// metadata. Later sources win so a caption can correct the OCR.
func parsePaymentDetails(sources ...string) *core.PaymentDetails {
	details := core.PaymentDetails{}
	found := false

	set := func(dst *string, pattern *regexp.Regexp, text string) {
		if m := pattern.FindStringSubmatch(text); m != nil {
			*dst = strings.TrimSpace(m[1])
			found = true
		}
	}

	for _, text := range sources {
		set(&details.TransactionID, txidPattern, text)
		set(&details.AccountName, accountPattern, text)
		set(&details.PaymentMethod, methodPattern, text)
	}

	if !found {
		return nil
	}
	return &details
}
