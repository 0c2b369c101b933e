package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/Abraxas-365/wacloud/eventx"
	"github.com/spf13/cobra"
)

// maxEventLine bounds one serialized event; webhook payloads stay well under it
const maxEventLine = 1 << 20

type batchPublisher interface {
	PublishBatch(ctx context.Context, events []eventx.Event) error
}

func newReplayCmd(a *app) *cobra.Command {
	var queueURL string
	cmd := &cobra.Command{
		Use:   "replay [file]",
		Short: "Publish archived events to an SQS queue again",
		Long: `Replay reads serialized events, one JSON object per line as serve forwards
them, from a file, an s3://bucket/key object or stdin, and publishes them to
the queue in batches. Event ids and timestamps are kept so consumers can
deduplicate.`,
		Example: `  wacloud replay --sqs-queue https://sqs.us-east-1.amazonaws.com/123/events dlq.jsonl`,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if queueURL == "" {
				queueURL = a.cfg.Get("sqs.queue").AsString()
			}
			if queueURL == "" {
				return errors.New("queue url is required: pass --sqs-queue or set " + envPrefix + "SQS_QUEUE")
			}
			uri := "-"
			if len(args) == 1 {
				uri = args[0]
			}

			ctx := cmd.Context()
			r, err := openInput(ctx, cmd.InOrStdin(), uri)
			if err != nil {
				return err
			}
			defer r.Close()

			pub, err := eventx.NewSQSPublisherFromEnv(ctx, queueURL)
			if err != nil {
				return err
			}
			n, err := replay(ctx, r, pub)
			if err != nil {
				return err
			}
			log.Info("replayed %d events to %s", n, queueURL)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), n)
			return err
		},
	}
	cmd.Flags().StringVar(&queueURL, "sqs-queue", "", "destination SQS queue URL (default sqs.queue)")
	return cmd
}

// replay decodes one event per non-blank line and publishes them all. A
// malformed line aborts before anything is sent.
func replay(ctx context.Context, r io.Reader, pub batchPublisher) (int, error) {
	var events []eventx.Event
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxEventLine)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		ev, err := eventx.FromJSON[json.RawMessage](raw)
		if err != nil {
			return 0, fmt.Errorf("line %d: %w", line, err)
		}
		events = append(events, ev)
	}
	if err := scanner.Err(); err != nil {
		return 0, err
	}
	if len(events) == 0 {
		return 0, nil
	}
	if err := pub.PublishBatch(ctx, events); err != nil {
		return 0, err
	}
	return len(events), nil
}
