package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"expensebot/internal/amqp"
	"expensebot/internal/core"
)

type fakeExtractor struct {
	text string
	err  error
}

func (f *fakeExtractor) ExtractText(context.Context, string) (string, error) {
	return f.text, f.err
}

func (f *fakeExtractor) Transcribe(context.Context, string) (string, error) {
	return f.text, f.err
}

func TestMediaProcessor_Photo(t *testing.T) {
	svc, _, _ := newTestService()
	extractor := &fakeExtractor{text: "Spent 250 for dinner"}
	processor := NewMediaProcessor(svc, extractor, nil, time.Second)

	job := amqp.NewMediaJob(42, amqp.MediaPhoto, "/data/media/receipt.jpg", "")
	result, err := processor.ProcessJob(context.Background(), job)
	require.NoError(t, err)
	require.True(t, result.Record.Amount.Equal(decimal.NewFromInt(250)))
	require.Equal(t, "Food", result.Record.Category)
	require.Equal(t, core.SourcePhotoOCR, result.Record.Source)
	require.Nil(t, result.Record.Payment)
}

func TestMediaProcessor_Voice(t *testing.T) {
	svc, _, _ := newTestService()
	transcriber := &fakeExtractor{text: "paid 80 for taxi"}
	processor := NewMediaProcessor(svc, nil, transcriber, time.Second)

	job := amqp.NewMediaJob(42, amqp.MediaVoice, "/data/media/note.ogg", "")
	result, err := processor.ProcessJob(context.Background(), job)
	require.NoError(t, err)
	require.True(t, result.Record.Amount.Equal(decimal.NewFromInt(80)))
	require.Equal(t, "Transport", result.Record.Category)
	require.Equal(t, core.SourceVoice, result.Record.Source)
}

func TestMediaProcessor_PaymentScreenshot(t *testing.T) {
	svc, store, _ := newTestService()
	extractor := &fakeExtractor{text: "Paid 499 to BigBasket\nTXID: 9982731\nAccount: HDFC Savings\nMethod: UPI"}
	processor := NewMediaProcessor(svc, extractor, nil, time.Second)

	job := amqp.NewMediaJob(42, amqp.MediaPaymentScreenshot, "/data/media/shot.png", "")
	result, err := processor.ProcessJob(context.Background(), job)
	require.NoError(t, err)
	require.Equal(t, core.SourcePaymentScreenshot, result.Record.Source)
	require.NotNil(t, result.Record.Payment)
	require.Equal(t, "9982731", result.Record.Payment.TransactionID)
	require.Equal(t, "HDFC Savings", result.Record.Payment.AccountName)
	require.Equal(t, "UPI", result.Record.Payment.PaymentMethod)

	recent, err := store.RecentExpenses(context.Background(), 42, 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	require.NotNil(t, recent[0].Payment)
	require.Equal(t, "9982731", recent[0].Payment.TransactionID)
}

func TestMediaProcessor_CaptionFallback(t *testing.T) {
	svc, _, _ := newTestService()
	extractor := &fakeExtractor{text: "blurry receipt with no readable numbers"}
	processor := NewMediaProcessor(svc, extractor, nil, time.Second)

	job := amqp.NewMediaJob(42, amqp.MediaPhoto, "/data/media/blurry.jpg", "Spent 150 for biriyani")
	result, err := processor.ProcessJob(context.Background(), job)
	require.NoError(t, err)
	require.True(t, result.Record.Amount.Equal(decimal.NewFromInt(150)))
	require.Equal(t, "Food", result.Record.Category)
}

func TestMediaProcessor_CaptionOverridesPaymentDetails(t *testing.T) {
	svc, _, _ := newTestService()
	extractor := &fakeExtractor{text: "Paid 499 to BigBasket\nTXID: 9982731"}
	processor := NewMediaProcessor(svc, extractor, nil, time.Second)

	job := amqp.NewMediaJob(42, amqp.MediaPaymentScreenshot, "/data/media/shot.png", "Method: credit card")
	result, err := processor.ProcessJob(context.Background(), job)
	require.NoError(t, err)
	require.NotNil(t, result.Record.Payment)
	require.Equal(t, "9982731", result.Record.Payment.TransactionID)
	require.Equal(t, "credit card", result.Record.Payment.PaymentMethod)
}

func TestMediaProcessor_ExtractionFailure(t *testing.T) {
	svc, _, _ := newTestService()
	extractor := &fakeExtractor{err: core.ErrExtractionFailed}
	processor := NewMediaProcessor(svc, extractor, nil, time.Second)

	job := amqp.NewMediaJob(42, amqp.MediaPhoto, "/data/media/missing.jpg", "")
	_, err := processor.ProcessJob(context.Background(), job)
	require.ErrorIs(t, err, core.ErrExtractionFailed)

	// Redelivering the same file cannot succeed, so the consumer must be
	// told to drop the job instead of requeueing it.
	require.ErrorIs(t, err, amqp.ErrBadMessage)
}

func TestMediaProcessor_NoTranscriberDropsJob(t *testing.T) {
	svc, _, _ := newTestService()
	processor := NewMediaProcessor(svc, &fakeExtractor{}, nil, time.Second)

	job := amqp.NewMediaJob(42, amqp.MediaVoice, "/data/media/note.ogg", "")
	_, err := processor.ProcessJob(context.Background(), job)
	require.ErrorIs(t, err, core.ErrExtractionFailed)
	require.ErrorIs(t, err, amqp.ErrBadMessage)
}

func TestMediaProcessor_TimeoutStaysRetryable(t *testing.T) {
	svc, _, _ := newTestService()
	extractor := &fakeExtractor{err: core.ErrExtractionFailed}
	processor := NewMediaProcessor(svc, extractor, nil, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	job := amqp.NewMediaJob(42, amqp.MediaPhoto, "/data/media/receipt.jpg", "")
	_, err := processor.ProcessJob(ctx, job)
	require.Error(t, err)
	require.NotErrorIs(t, err, amqp.ErrBadMessage)
}

func TestMediaProcessor_UnknownKind(t *testing.T) {
	svc, _, _ := newTestService()
	processor := NewMediaProcessor(svc, &fakeExtractor{}, nil, time.Second)

	job := amqp.NewMediaJob(42, amqp.MediaKind("video"), "/data/media/clip.mp4", "")
	_, err := processor.ProcessJob(context.Background(), job)
	require.ErrorIs(t, err, amqp.ErrBadMessage)
}
