// Package whatsappx is a WhatsApp Cloud API client and webhook dispatcher.
//
// Outbound, a Client posts msgx messages to /{version}/{phone-id}/messages
// and can broadcast to many recipients in paced batches. Inbound, Post
// verifies the X-Hub-Signature-256 header, classifies the payload as a
// message, status or call and hands a normalized event to the registered
// handler; Get answers the subscription challenge.
//
//	client := whatsappx.New(whatsappx.ConfigFromSource(cfg))
//	client.OnMessage(func(ctx context.Context, ev *whatsappx.MessageEvent) (any, error) {
//		text, err := msgx.NewText("pong", false)
//		if err != nil {
//			return nil, err
//		}
//		return ev.Reply(ctx, text)
//	})
//
// Host framework adapters live in whatsappx/middleware.
package whatsappx
