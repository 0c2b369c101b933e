package main

import (
	"fmt"

	"github.com/Abraxas-365/wacloud/configx"
	"github.com/Abraxas-365/wacloud/logx"
	"github.com/Abraxas-365/wacloud/whatsappx"
	"github.com/spf13/cobra"
)

const envPrefix = "WACLOUD_"

// app carries what the root command loads for its subcommands
type app struct {
	envFile  string
	logLevel string
	cfg      configx.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "wacloud",
		Short:         "WhatsApp Cloud API webhook server and sender",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
	}
	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file to read settings from")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level, overrides LOG_LEVEL")

	root.AddCommand(
		newServeCmd(a),
		newSendCmd(a),
		newBroadcastCmd(a),
		newReplayCmd(a),
		newSignCmd(a),
	)
	return root
}

func (a *app) load() error {
	if a.logLevel != "" {
		level, err := logx.ParseLevel(a.logLevel)
		if err != nil {
			return err
		}
		logx.SetLevel(level)
	}

	cfg, err := configx.NewBuilder().
		WithDefaults(map[string]any{
			"server.addr": ":8080",
			"server.path": "/webhook",
		}).
		FromDotEnv(a.envFile).
		FromEnv(envPrefix).
		Build()
	if err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

func (a *app) client(metrics *whatsappx.Metrics) *whatsappx.Client {
	cfg := whatsappx.ConfigFromSource(a.cfg)
	cfg.Metrics = metrics
	return whatsappx.New(cfg)
}

// phoneID prefers the flag and falls back to whatsapp.phone
func (a *app) phoneID(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if id := a.cfg.Get("whatsapp.phone").AsString(); id != "" {
		return id, nil
	}
	return "", fmt.Errorf("phone number id is required: pass --phone-id or set %sWHATSAPP_PHONE", envPrefix)
}

func (a *app) requireToken() error {
	if a.cfg.Get("whatsapp.token").AsString() == "" {
		return fmt.Errorf("access token is required: set %sWHATSAPP_TOKEN", envPrefix)
	}
	return nil
}
