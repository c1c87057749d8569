package main

import (
	"context"
	"errors"
	"fmt"

	"portfolio-backend/config"
	"portfolio-backend/pkg/email"

	"github.com/spf13/cobra"
)

// verifyCmd runs only the relay verify step
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify SMTP settings without sending mail",
	Long: `Load SMTP settings from the environment (and .env), open a relay session
and run the connect, TLS and auth handshake. No message is sent.`,
	RunE: runVerify,
}

func runVerify(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	mailCfg := cfg.Email()
	if !mailCfg.Configured() {
		return errors.New("SMTP_USERNAME and SMTP_PASSWORD must be set")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	if err := email.TestConnection(ctx, email.NewSMTPRelay(mailCfg)); err != nil {
		return fmt.Errorf("verify %s:%d: %w", mailCfg.Host, mailCfg.Port, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "SMTP relay %s:%d accepted login for %s\n", mailCfg.Host, mailCfg.Port, mailCfg.Username)
	return nil
}
