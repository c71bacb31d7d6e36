// Package ui renders mcporter command output as tables.
package ui

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/verdantlabs/mcporter/pkg/backup"
	"github.com/verdantlabs/mcporter/pkg/diagnostics"
	"github.com/verdantlabs/mcporter/pkg/registry"
)

func newTable(headers []string) *tablewriter.Table {
	table := tablewriter.NewWriter(os.Stdout)
	table.Options(
		tablewriter.WithHeader(headers),
		tablewriter.WithRendition(
			tw.Rendition{
				Borders: tw.Border{
					Left:   tw.State(1),
					Top:    tw.State(1),
					Right:  tw.State(1),
					Bottom: tw.State(1),
				},
			},
		),
		tablewriter.WithAlignment(tw.MakeAlign(len(headers), tw.AlignLeft)),
	)
	return table
}

// RenderServersTable renders the registered tool servers to stdout.
func RenderServersTable(servers map[string]registry.ServerEntry) error {
	if len(servers) == 0 {
		fmt.Println("No tool servers registered.")
		return nil
	}

	names := make([]string, 0, len(servers))
	for name := range servers {
		names = append(names, name)
	}
	sort.Strings(names)

	table := newTable([]string{"Name", "Command", "Args", "Env"})
	for _, name := range names {
		entry := servers[name]

		envKeys := make([]string, 0, len(entry.Env))
		for key := range entry.Env {
			envKeys = append(envKeys, key)
		}
		sort.Strings(envKeys)

		if err := table.Append([]string{
			name,
			entry.Command,
			strings.Join(entry.Args, " "),
			strings.Join(envKeys, ", "),
		}); err != nil {
			return fmt.Errorf("failed to append row: %w", err)
		}
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	return nil
}

// RenderBackupsTable renders the snapshot listing to stdout, most recent
// last.
func RenderBackupsTable(snapshots []backup.Snapshot) error {
	if len(snapshots) == 0 {
		fmt.Println("No snapshots found.")
		return nil
	}

	table := newTable([]string{"Timestamp", "File"})
	for _, snap := range snapshots {
		if err := table.Append([]string{
			backup.Stamp(snap.Timestamp),
			snap.Path,
		}); err != nil {
			return fmt.Errorf("failed to append row: %w", err)
		}
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	return nil
}

// RenderDiagnosticsReport renders the diagnostic report to stdout.
func RenderDiagnosticsReport(report *diagnostics.Report) error {
	latest := "none"
	if report.LatestSnapshot != nil {
		latest = backup.Stamp(*report.LatestSnapshot)
	}

	network := yesNo(report.Probes.NetworkReachable)
	if report.Probes.NetworkReachable {
		network = fmt.Sprintf("%s (%v)", network, report.Probes.NetworkLatency)
	}

	table := newTable([]string{"Check", "Result"})
	rows := [][]string{
		{"Registry file", report.RegistryPath},
		{"Registered servers", fmt.Sprintf("%d", len(report.Servers))},
		{"Backup directory", report.BackupDir},
		{"Snapshots", fmt.Sprintf("%d", report.SnapshotCount)},
		{"Latest snapshot", latest},
		{"Claude Desktop installed", yesNo(report.Probes.HostInstalled)},
		{"Claude Desktop running", yesNo(report.Probes.HostRunning)},
		{"Package registry reachable", network},
	}
	if report.RegistryError != "" {
		rows = append(rows, []string{"Registry error", report.RegistryError})
	}
	if report.BackupError != "" {
		rows = append(rows, []string{"Backup error", report.BackupError})
	}

	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return fmt.Errorf("failed to append row: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	if len(report.Servers) > 0 {
		fmt.Println()
		servers := make(map[string]registry.ServerEntry, len(report.Servers))
		for _, entry := range report.Servers {
			servers[entry.Name] = entry
		}
		return RenderServersTable(servers)
	}
	return nil
}

func yesNo(v bool) string {
	if v {
		return "✅ Yes"
	}
	return "❌ No"
}
