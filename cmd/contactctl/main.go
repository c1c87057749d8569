package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	timeout time.Duration
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "contactctl",
	Short: "Operator tool for the portfolio contact pipeline",
	Long: `contactctl exercises the contact pipeline from a terminal.

Available subcommands:
  send   - Submit a contact message to a running API, like the site form does
  verify - Check SMTP settings from the environment without sending mail`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Operation timeout")

	sendCmd.Flags().StringVar(&sendEndpoint, "endpoint", "http://localhost:8080/v1/contact", "Contact endpoint URL")
	sendCmd.Flags().StringVar(&sendName, "name", "", "Sender name (required)")
	sendCmd.Flags().StringVar(&sendEmail, "email", "", "Sender email (required)")
	sendCmd.Flags().StringVar(&sendPhone, "phone", "", "Sender phone")
	sendCmd.Flags().StringVar(&sendPurpose, "purpose", "", "Message body (required)")
	sendCmd.MarkFlagRequired("name")
	sendCmd.MarkFlagRequired("email")
	sendCmd.MarkFlagRequired("purpose")

	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(verifyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
