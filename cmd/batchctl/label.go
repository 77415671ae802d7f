// cmd/batchctl/label.go
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lacra/agritrace-backend/internal/label"
	"github.com/lacra/agritrace-backend/internal/models"
)

func newLabelCmd() *cobra.Command {
	var (
		recordPath string
		outPath    string
		verifyURL  string
		org        string
	)

	cmd := &cobra.Command{
		Use:   "label",
		Short: "Render a printable label from a commodity JSON record",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(recordPath)
			if err != nil {
				return fmt.Errorf("failed to read record: %w", err)
			}

			var record models.Commodity
			if err := json.Unmarshal(data, &record); err != nil {
				return fmt.Errorf("failed to decode record: %w", err)
			}

			html, err := label.Render(record.BatchNumber, &record, label.Options{
				VerifyBaseURL: verifyURL,
				Organization:  org,
			})
			if err != nil {
				return err
			}

			if outPath == "-" {
				_, err := cmd.OutOrStdout().Write(html)
				return err
			}
			if outPath == "" {
				outPath = label.FileName(record.BatchNumber)
			}
			if err := os.WriteFile(outPath, html, 0o644); err != nil {
				return fmt.Errorf("failed to write label: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&recordPath, "record", "", "path to a commodity JSON record")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file, - for stdout (default batch-label-{code}.html)")
	cmd.Flags().StringVar(&verifyURL, "verify-base-url", "", "verification URL for the QR code (omitted when empty)")
	cmd.Flags().StringVar(&org, "organization", label.DefaultOrganization, "organization printed in the footer")
	_ = cmd.MarkFlagRequired("record")
	return cmd
}
