package main

import (
	"context"
	"fmt"
	"log/slog"

	"portfolio-backend/pkg/contactform"

	"github.com/spf13/cobra"
)

var (
	sendEndpoint string
	sendName     string
	sendEmail    string
	sendPhone    string
	sendPurpose  string
)

// sendCmd posts one contact message through the client state machine
var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Submit a contact message to the API",
	Long: `Submit a contact message the same way the website form does.

The draft is validated locally first; nothing is sent if name, email or
purpose is missing or the email is malformed. The request is sent once.`,
	RunE: runSend,
}

func runSend(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	form := contactform.New(sendEndpoint, contactform.WithLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))))
	form.UpdateField(contactform.FieldName, sendName)
	form.UpdateField(contactform.FieldEmail, sendEmail)
	form.UpdateField(contactform.FieldPhone, sendPhone)
	form.UpdateField(contactform.FieldPurpose, sendPurpose)

	state, err := form.Submit(ctx)
	fmt.Fprintf(cmd.OutOrStdout(), "state: %s\n", state)
	if msg := form.StatusMessage(); msg != "" {
		fmt.Fprintln(cmd.OutOrStdout(), msg)
	}
	if err != nil {
		return fmt.Errorf("send failed: %w", err)
	}
	return nil
}
