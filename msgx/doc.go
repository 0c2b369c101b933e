// Package msgx builds outbound WhatsApp Cloud API messages.
//
// Every constructor validates its input and returns an error instead of a
// half-built value, so anything that reaches the network already satisfies
// the platform limits. Builders are immutable and serialize with
// encoding/json to the object that goes under the message type key:
//
//	body, _ := msgx.NewBody("Pick one")
//	yes, _ := msgx.NewButton("yes", "Yes")
//	no, _ := msgx.NewButton("no", "No")
//	action, _ := msgx.NewActionButtons(yes, no)
//	msg, err := msgx.NewInteractive(action, msgx.InteractiveParts{Body: body})
//
// Validation failures are errx errors from the validatex registry.
package msgx
