package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Abraxas-365/wacloud/asyncx"
	"github.com/Abraxas-365/wacloud/errx"
	"github.com/Abraxas-365/wacloud/fsx"
	"github.com/Abraxas-365/wacloud/msgx"
	"github.com/Abraxas-365/wacloud/whatsappx"
	"github.com/spf13/cobra"
)

// messageOptions are the flags shared by send and broadcast
type messageOptions struct {
	phoneID    string
	text       string
	previewURL bool
	imageURL   string
	caption    string
	template   string
	language   string
}

func (o *messageOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.phoneID, "phone-id", "", "business phone number id (default whatsapp.phone)")
	cmd.Flags().StringVar(&o.text, "text", "", "text message body")
	cmd.Flags().BoolVar(&o.previewURL, "preview-url", false, "render a preview for the first URL in --text")
	cmd.Flags().StringVar(&o.imageURL, "image-url", "", "send the image at this URL")
	cmd.Flags().StringVar(&o.caption, "caption", "", "caption for --image-url")
	cmd.Flags().StringVar(&o.template, "template", "", "send this approved template")
	cmd.Flags().StringVar(&o.language, "lang", "en_US", "template language code")
	cmd.MarkFlagsMutuallyExclusive("text", "image-url", "template")
	cmd.MarkFlagsOneRequired("text", "image-url", "template")
}

func (o *messageOptions) build() (msgx.ClientMessage, error) {
	switch {
	case o.template != "":
		lang, err := msgx.NewLanguage(o.language)
		if err != nil {
			return nil, err
		}
		return msgx.NewTemplate(o.template, lang)
	case o.imageURL != "":
		return msgx.NewImage(msgx.MediaLink(o.imageURL), o.caption)
	default:
		return msgx.NewText(o.text, o.previewURL)
	}
}

func newSendCmd(a *app) *cobra.Command {
	opts := &messageOptions{}
	var to, replyTo, tracking string
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send one message",
		Example: `  wacloud send --to 5491100000000 --text "hello"
  wacloud send --to 5491100000000 --template hello_world --lang en_US`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireToken(); err != nil {
				return err
			}
			phoneID, err := a.phoneID(opts.phoneID)
			if err != nil {
				return err
			}
			msg, err := opts.build()
			if err != nil {
				return err
			}

			var sendOpts []whatsappx.SendOption
			if replyTo != "" {
				sendOpts = append(sendOpts, whatsappx.WithReplyTo(replyTo))
			}
			if tracking != "" {
				sendOpts = append(sendOpts, whatsappx.WithTrackingData(tracking))
			}

			resp, err := a.client(nil).SendMessage(cmd.Context(), phoneID, to, msg, sendOpts...)
			if err != nil {
				return fmt.Errorf("%w%s", err, graphDetail(err))
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), resp.MessageID())
			return err
		},
	}
	opts.bind(cmd)
	cmd.Flags().StringVar(&to, "to", "", "recipient phone number")
	cmd.Flags().StringVar(&replyTo, "reply-to", "", "quote this message id")
	cmd.Flags().StringVar(&tracking, "tracking", "", "opaque data echoed back in status webhooks")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newBroadcastCmd(a *app) *cobra.Command {
	opts := &messageOptions{}
	var (
		to        []string
		files     []string
		batchSize int
		delay     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "broadcast",
		Short: "Send the same message to many recipients in paced batches",
		Example: `  wacloud broadcast --file recipients.txt --template promo --batch 50 --delay 1s`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireToken(); err != nil {
				return err
			}
			phoneID, err := a.phoneID(opts.phoneID)
			if err != nil {
				return err
			}
			msg, err := opts.build()
			if err != nil {
				return err
			}

			recipients := to
			if len(files) > 0 {
				fromFile, err := readAllRecipients(cmd.Context(), cmd.InOrStdin(), files)
				if err != nil {
					return err
				}
				recipients = append(recipients, fromFile...)
			}
			if len(recipients) == 0 {
				return errors.New("no recipients: pass --to or --file")
			}

			ctx := cmd.Context()
			futures, err := a.client(nil).Broadcast(ctx, phoneID, recipients, msgx.Static(msg), batchSize, delay)
			if err != nil && futures == nil {
				return err
			}
			results, waitErr := asyncx.All(ctx, futures)
			failed := report(cmd.OutOrStdout(), recipients, results)
			log.Info("broadcast to %d recipients, %d failed", len(recipients), failed)

			switch {
			case err != nil:
				return err
			case waitErr != nil:
				return waitErr
			case failed > 0:
				return fmt.Errorf("%d of %d sends failed", failed, len(recipients))
			}
			return nil
		},
	}
	opts.bind(cmd)
	cmd.Flags().StringSliceVar(&to, "to", nil, "recipient phone numbers")
	cmd.Flags().StringSliceVar(&files, "file", nil, "recipients files, one per line: a path, s3://bucket/key or - for stdin")
	cmd.Flags().IntVar(&batchSize, "batch", 50, "recipients per batch")
	cmd.Flags().DurationVar(&delay, "delay", time.Second, "pause between batches")
	return cmd
}

// report writes one "recipient<TAB>message id or error" line per result
// and returns how many failed
func report(w io.Writer, recipients []string, results []asyncx.Result[*whatsappx.SendResponse]) int {
	failed := 0
	for i, res := range results {
		if res.Err != nil {
			failed++
			fmt.Fprintf(w, "%s\terror: %v%s\n", recipients[i], res.Err, graphDetail(res.Err))
			continue
		}
		if res.Value == nil {
			// pending when the wait was cut short
			continue
		}
		fmt.Fprintf(w, "%s\t%s\n", recipients[i], res.Value.MessageID())
	}
	return failed
}

// graphDetail renders the Graph API code and trace id carried by err, if any
func graphDetail(err error) string {
	ge, ok := errx.GraphErrorOf(err)
	if !ok {
		return ""
	}
	if ge.FbtraceID == "" {
		return fmt.Sprintf(" (graph code %d)", ge.Code)
	}
	return fmt.Sprintf(" (graph code %d, fbtrace %s)", ge.Code, ge.FbtraceID)
}

// openInput opens stdin ("-"), a local file or an s3://bucket/key object
func openInput(ctx context.Context, in io.Reader, uri string) (io.ReadCloser, error) {
	if uri == "-" {
		return io.NopCloser(in), nil
	}
	fs, path, err := fsx.Open(ctx, uri)
	if err != nil {
		return nil, err
	}
	return fs.ReadFileStream(ctx, path)
}

// readRecipients reads one recipient per line from uri (see openInput).
// Blank lines and # comments are skipped.
func readRecipients(ctx context.Context, in io.Reader, uri string) ([]string, error) {
	r, err := openInput(ctx, in, uri)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var out []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out, scanner.Err()
}

// readAllRecipients reads every recipients file concurrently and joins them
// in flag order
func readAllRecipients(ctx context.Context, in io.Reader, uris []string) ([]string, error) {
	lists, err := asyncx.Map(ctx, uris, func(ctx context.Context, uri string) ([]string, error) {
		return readRecipients(ctx, in, uri)
	})
	if err != nil {
		return nil, err
	}
	var out []string
	for _, l := range lists {
		out = append(out, l...)
	}
	return out, nil
}
