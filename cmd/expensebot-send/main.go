// expensebot-send publishes a text entry or a media job onto the queues the
// worker consumes. Handy for smoke testing a deployment without a chat
// front-end attached.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"expensebot/internal/amqp"
	"expensebot/internal/config"
	applog "expensebot/internal/log"
)

func main() {
	_ = godotenv.Load()

	applog.SetDefault(applog.New(applog.Config{
		Level:     slog.LevelInfo,
		Component: applog.ComponentAMQP,
	}))

	var (
		userID  = flag.Int64("user", 0, "user id (required)")
		text    = flag.String("text", "", "raw expense text to ingest")
		file    = flag.String("file", "", "media file path for a media job")
		kind    = flag.String("kind", "photo", "media kind: photo, voice or payment-screenshot")
		caption = flag.String("caption", "", "caption attached to the media job")
	)
	flag.Parse()

	if *userID == 0 || (*text == "" && *file == "") {
		fmt.Fprintln(os.Stderr, "usage: expensebot-send -user <id> (-text <entry> | -file <path> [-kind photo|voice|payment-screenshot] [-caption <text>])")
		os.Exit(2)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		os.Exit(1)
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		fmt.Fprintln(os.Stderr, "connect AMQP:", err)
		os.Exit(1)
	}
	defer client.Close()

	ctx := context.Background()

	if *text != "" {
		if err := client.PublishText(ctx, amqp.NewTextMessage(*userID, *text)); err != nil {
			fmt.Fprintln(os.Stderr, "publish text:", err)
			os.Exit(1)
		}
		fmt.Println("queued text entry")
		return
	}

	job := amqp.NewMediaJob(*userID, amqp.MediaKind(*kind), *file, *caption)
	switch job.Kind {
	case amqp.MediaPhoto, amqp.MediaVoice, amqp.MediaPaymentScreenshot:
	default:
		fmt.Fprintf(os.Stderr, "unknown media kind %q\n", *kind)
		os.Exit(2)
	}
	if err := client.PublishMediaJob(ctx, job); err != nil {
		fmt.Fprintln(os.Stderr, "publish media job:", err)
		os.Exit(1)
	}
	fmt.Println("queued media job")
}
