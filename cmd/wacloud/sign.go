package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Abraxas-365/wacloud/whatsappx"
	"github.com/spf13/cobra"
)

func newSignCmd(a *app) *cobra.Command {
	var secret string
	cmd := &cobra.Command{
		Use:   "sign [file]",
		Short: "Print the X-Hub-Signature-256 value for a webhook body",
		Long: `Sign reads a webhook body from file, or stdin when omitted, and prints the
signature Meta would send for it. Useful to replay payloads against serve.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				secret = a.cfg.Get("whatsapp.secret").AsString()
			}
			if secret == "" {
				return errors.New("app secret is required: pass --secret or set " + envPrefix + "WHATSAPP_SECRET")
			}

			var (
				body []byte
				err  error
			)
			if len(args) == 1 && args[0] != "-" {
				body, err = os.ReadFile(args[0])
			} else {
				body, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), whatsappx.Sign(secret, body, whatsappx.HMACSHA256))
			return err
		},
	}
	cmd.Flags().StringVar(&secret, "secret", "", "app secret (default whatsapp.secret)")
	return cmd
}
