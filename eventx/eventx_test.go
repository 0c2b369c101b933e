package eventx

import (
	"context"
	"errors"
	"testing"

	"github.com/Abraxas-365/wacloud/errx"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type inbound struct {
	From string `json:"from"`
	Text string `json:"text"`
}

func TestJSONRoundTrip(t *testing.T) {
	ev := NewEvent("whatsapp.message", inbound{From: "123", Text: "hi"},
		WithSource("test"), WithMetadata("phone_id", "42"))

	raw, err := ToJSON(ev)
	require.NoError(t, err)

	back, err := FromJSON[inbound](raw)
	require.NoError(t, err)
	assert.Equal(t, ev.ID(), back.ID())
	assert.Equal(t, "test", back.Source())
	assert.Equal(t, "hi", back.Data().Text)
	assert.Equal(t, "42", back.Metadata()["phone_id"])
	assert.True(t, ev.Timestamp().Equal(back.Timestamp()))
}

func TestFromJSON_Invalid(t *testing.T) {
	_, err := FromJSON[inbound]([]byte("{"))
	assert.True(t, errx.IsCode(err, ErrSerializationFailed))
}

func TestMemoryBus(t *testing.T) {
	bus := NewMemoryBus()
	var got []string

	SubscribeTyped(bus, "whatsapp.message", func(ctx context.Context, e TypedEvent[inbound]) error {
		got = append(got, "typed:"+e.Data().Text)
		return nil
	})
	bus.Subscribe(Wildcard, func(ctx context.Context, e Event) error {
		got = append(got, "all:"+e.Type())
		return nil
	})

	require.NoError(t, bus.Publish(context.Background(), NewEvent("whatsapp.message", inbound{Text: "hi"})))
	require.NoError(t, bus.Publish(context.Background(), NewEvent("whatsapp.status", "read")))

	assert.Equal(t, []string{"typed:hi", "all:whatsapp.message", "all:whatsapp.status"}, got)
	assert.Equal(t, 1, bus.HandlerCount("whatsapp.message"))
}

func TestMemoryBus_HandlerErrors(t *testing.T) {
	bus := NewMemoryBus()
	calls := 0
	bus.Subscribe("x", func(ctx context.Context, e Event) error { calls++; return errors.New("first") })
	bus.Subscribe("x", func(ctx context.Context, e Event) error { calls++; return nil })
	SubscribeTyped(bus, "x", func(ctx context.Context, e TypedEvent[inbound]) error { return nil })

	err := bus.Publish(context.Background(), NewEvent("x", 1))
	assert.Equal(t, 2, calls)
	assert.True(t, errx.IsCode(err, ErrHandlerFailed))
	assert.ErrorContains(t, err, "first")
}

type fakeSQS struct {
	single  []*sqs.SendMessageInput
	batches []*sqs.SendMessageBatchInput
	fail    map[string]bool
}

func (f *fakeSQS) SendMessage(ctx context.Context, in *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.single = append(f.single, in)
	return &sqs.SendMessageOutput{MessageId: aws.String("m-1")}, nil
}

func (f *fakeSQS) SendMessageBatch(ctx context.Context, in *sqs.SendMessageBatchInput, _ ...func(*sqs.Options)) (*sqs.SendMessageBatchOutput, error) {
	f.batches = append(f.batches, in)
	out := &sqs.SendMessageBatchOutput{}
	for _, e := range in.Entries {
		if f.fail[aws.ToString(e.Id)] {
			out.Failed = append(out.Failed, types.BatchResultErrorEntry{Id: e.Id, Code: aws.String("Boom")})
		}
	}
	return out, nil
}

func TestSQSPublisher_Publish(t *testing.T) {
	fake := &fakeSQS{}
	pub, err := NewSQSPublisher(fake, "https://sqs.local/queue")
	require.NoError(t, err)

	ev := NewEvent("whatsapp.status", inbound{From: "1"})
	require.NoError(t, pub.Publish(context.Background(), ev))

	require.Len(t, fake.single, 1)
	assert.Equal(t, "https://sqs.local/queue", aws.ToString(fake.single[0].QueueUrl))
	assert.Contains(t, aws.ToString(fake.single[0].MessageBody), ev.ID())
	assert.Equal(t, "whatsapp.status", aws.ToString(fake.single[0].MessageAttributes["event_type"].StringValue))
}

func TestSQSPublisher_PublishBatch(t *testing.T) {
	fake := &fakeSQS{fail: map[string]bool{"11": true}}
	pub, err := NewSQSPublisher(fake, "q")
	require.NoError(t, err)

	events := make([]Event, 12)
	for i := range events {
		events[i] = NewEvent("x", i)
	}

	err = pub.PublishBatch(context.Background(), events)
	require.Len(t, fake.batches, 2)
	assert.Len(t, fake.batches[0].Entries, 10)
	assert.Len(t, fake.batches[1].Entries, 2)

	var xerr *errx.Error
	require.ErrorAs(t, err, &xerr)
	assert.Equal(t, []string{events[11].ID()}, xerr.Details["failed_event_ids"])
}

func TestNewSQSPublisher_Validation(t *testing.T) {
	_, err := NewSQSPublisher(nil, "q")
	assert.True(t, errx.IsCode(err, ErrInvalidConfiguration))
}
