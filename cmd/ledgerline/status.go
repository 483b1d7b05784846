// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ledgerline Contributors

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ledgerline/ledgerline/internal/store"
)

// SchemaStatus holds the database and migration state reported by the
// status command.
type SchemaStatus struct {
	Database string `json:"database"`
	Version  uint   `json:"version"`
	Latest   uint   `json:"latest"`
	Dirty    bool   `json:"dirty"`
	Pending  bool   `json:"pending"`
	Error    string `json:"error,omitempty"`
}

// statusConfig holds configuration for the status command.
type statusConfig struct {
	jsonOutput bool
}

// newStatusCmd creates the status subcommand with all flags configured.
func newStatusCmd() *cobra.Command {
	cfg := &statusConfig{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show database and migration status",
		Long:  `Show the health of the PostgreSQL connection and the applied schema version.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd, cfg)
		},
	}

	cmd.Flags().BoolVar(&cfg.jsonOutput, "json", false, "output status as JSON")

	return cmd
}

// runStatus executes the status command.
func runStatus(cmd *cobra.Command, cfg *statusConfig) error {
	databaseURL, err := getDatabaseURL()
	if err != nil {
		return err
	}

	status := querySchemaStatus(cmd.Context(), databaseURL)

	var output string
	if cfg.jsonOutput {
		output, err = formatStatusJSON(status)
		if err != nil {
			return fmt.Errorf("failed to format JSON: %w", err)
		}
	} else {
		output = formatStatusTable(status)
	}

	cmd.Println(output)
	return nil
}

// querySchemaStatus checks database connectivity and reads the migration version.
func querySchemaStatus(ctx context.Context, databaseURL string) SchemaStatus {
	status := SchemaStatus{Database: "unreachable"}

	if latest, err := store.LatestVersion(); err == nil {
		status.Latest = latest
	}

	st, err := store.Connect(ctx, databaseURL, 1)
	if err != nil {
		status.Error = err.Error()
		return status
	}
	st.Close()
	status.Database = "connected"

	migrator, err := store.NewMigrator(databaseURL)
	if err != nil {
		status.Error = err.Error()
		return status
	}
	defer func() { _ = migrator.Close() }() //nolint:errcheck // read-only check

	version, dirty, err := migrator.Version()
	if err != nil {
		status.Error = err.Error()
		return status
	}

	status.Version = version
	status.Dirty = dirty
	status.Pending = version < status.Latest
	return status
}

// formatStatusTable formats the status as a human-readable table.
func formatStatusTable(status SchemaStatus) string {
	var buf []byte
	w := tabwriter.NewWriter((*byteWriter)(&buf), 0, 0, 2, ' ', 0)

	_, _ = fmt.Fprintln(w, "DATABASE\tVERSION\tLATEST\tDIRTY\tPENDING")
	_, _ = fmt.Fprintln(w, "--------\t-------\t------\t-----\t-------")

	if status.Database == "connected" {
		_, _ = fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%s\n",
			status.Database, status.Version, status.Latest,
			yesNo(status.Dirty), yesNo(status.Pending))
	} else {
		reason := "not reachable"
		if status.Error != "" {
			reason = status.Error
		}
		_, _ = fmt.Fprintf(w, "%s\t-\t%d\t-\t%s\n", status.Database, status.Latest, reason)
	}

	_ = w.Flush()
	return string(buf)
}

// formatStatusJSON formats the status as JSON.
func formatStatusJSON(status SchemaStatus) (string, error) {
	data, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal status: %w", err)
	}
	return string(data), nil
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

// byteWriter is a simple writer that appends to a byte slice.
type byteWriter []byte

func (w *byteWriter) Write(p []byte) (int, error) {
	*w = append(*w, p...)
	return len(p), nil
}
