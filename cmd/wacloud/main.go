// Command wacloud serves a WhatsApp Cloud API webhook and sends messages from
// the command line.
//
// Settings come from a .env file and from WACLOUD_ prefixed environment
// variables, the latter winning:
//
//	WACLOUD_WHATSAPP_TOKEN    Graph API access token
//	WACLOUD_WHATSAPP_SECRET   app secret used to verify webhook signatures
//	WACLOUD_WHATSAPP_VERIFY   verify token for the subscription challenge
//	WACLOUD_WHATSAPP_PHONE    default business phone number id
//	WACLOUD_SERVER_ADDR       listen address for serve
//	WACLOUD_SQS_QUEUE         SQS queue URL for serve forwarding and replay
//
// In the .env file the same keys are written without the WACLOUD_ prefix.
package main

import (
	"os"

	"github.com/Abraxas-365/wacloud/logx"
)

var log = logx.Named("wacloud")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
}
