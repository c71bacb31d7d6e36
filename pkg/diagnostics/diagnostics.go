// Package diagnostics builds a read-only report over the registry file, the
// backup store, and externally supplied host application and network probe
// results. Building a report never mutates anything and never fails on
// missing optional data: a missing registry means zero entries, a missing
// backup directory means zero snapshots.
package diagnostics

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/verdantlabs/mcporter/pkg/backup"
	"github.com/verdantlabs/mcporter/pkg/registry"
)

// Probes carries the externally supplied collaborator status values. They
// are reported verbatim; this package never probes the host application
// itself.
type Probes struct {
	HostInstalled    bool
	HostRunning      bool
	NetworkReachable bool
	NetworkLatency   time.Duration
}

// Report is the aggregated diagnostic state.
type Report struct {
	RegistryPath string
	BackupDir    string

	// Servers is the current entry listing, sorted by name.
	Servers []registry.ServerEntry

	// RegistryError is set when the registry file exists but could not be
	// read, instead of failing the report.
	RegistryError string

	// BackupError is set when the backup directory exists but could not be
	// listed, instead of failing the report.
	BackupError string

	SnapshotCount  int
	LatestSnapshot *time.Time

	Probes Probes
}

// BuildReport inspects the registry and backup store and combines them with
// the supplied probe results.
func BuildReport(registryPath, backupDir string, probes Probes) *Report {
	report := &Report{
		RegistryPath: registryPath,
		BackupDir:    backupDir,
		Probes:       probes,
	}

	servers, err := loadServers(registryPath)
	if err != nil {
		report.RegistryError = err.Error()
	} else {
		report.Servers = servers
	}

	store := backup.NewStore(backupDir)
	snapshots, err := store.List()
	if err != nil {
		report.BackupError = err.Error()
	} else {
		report.SnapshotCount = len(snapshots)
		if len(snapshots) > 0 {
			latest := snapshots[len(snapshots)-1].Timestamp
			report.LatestSnapshot = &latest
		}
	}

	return report
}

func loadServers(registryPath string) ([]registry.ServerEntry, error) {
	doc, err := registry.Load(registryPath)
	if err != nil {
		return nil, err
	}
	servers, err := doc.Servers()
	if err != nil {
		return nil, err
	}

	entries := make([]registry.ServerEntry, 0, len(servers))
	for _, entry := range servers {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	return entries, nil
}

// DefaultProbeURL is the endpoint used for the network reachability probe.
// The npm registry is the natural choice since tool server packages are
// fetched from it.
const DefaultProbeURL = "https://registry.npmjs.org"

// probeRequestTimeout bounds each individual reachability attempt.
const probeRequestTimeout = 2 * time.Second

// CheckReachability reports whether the given URL answers an HTTP request,
// and the latency of the successful attempt. Transient failures are retried
// briefly with exponential backoff before the endpoint is reported as
// unreachable.
func CheckReachability(ctx context.Context, url string) (bool, time.Duration) {
	client := &http.Client{Timeout: probeRequestTimeout}

	latency, err := backoff.Retry(ctx, func() (time.Duration, error) {
		start := time.Now()
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
		if err != nil {
			return 0, backoff.Permanent(err)
		}
		resp, err := client.Do(req)
		if err != nil {
			return 0, err
		}
		_ = resp.Body.Close()
		return time.Since(start), nil
	}, backoff.WithBackOff(backoff.NewExponentialBackOff()), backoff.WithMaxTries(3))

	if err != nil {
		return false, 0
	}
	return true, latency
}
