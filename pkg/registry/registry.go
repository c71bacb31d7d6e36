// Package registry provides the document model for the tool server registry
// file. The registry is a JSON object whose top-level "mcpServers" member maps
// server names to launch definitions (command, arguments, environment).
//
// The document is held as parsed hujson so that top-level members this tool
// does not understand survive a load→save round trip: mutations are applied
// as JSON patches against the named server entries only, and everything else
// in the file is carried through untouched.
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/tailscale/hujson"
	"github.com/tidwall/gjson"

	"github.com/verdantlabs/mcporter/pkg/errors"
	"github.com/verdantlabs/mcporter/pkg/fileutils"
)

// ServersKey is the top-level member holding the server map.
const ServersKey = "mcpServers"

// filePerm is the permission applied to the registry file on save.
const filePerm = os.FileMode(0o600)

// ServerEntry is a named, launchable tool server definition.
type ServerEntry struct {
	Name    string            `json:"-"`
	Command string            `json:"command"`
	Args    []string          `json:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
}

// Validate checks the entry invariants: non-empty name and command.
func (e ServerEntry) Validate() error {
	if e.Name == "" {
		return errors.NewInvalidArgumentError("server name must not be empty", nil)
	}
	if e.Command == "" {
		return errors.NewInvalidArgumentError("server command must not be empty", nil)
	}
	return nil
}

// Document is the in-memory representation of the registry file. A Document
// is loaded at the start of an operation and discarded after the result is
// persisted; it is not safe for concurrent use.
type Document struct {
	value hujson.Value
}

// Load reads the registry file at path. A missing file yields an empty
// document, not an error; callers that need persistence must Save afterward.
// A file that exists but cannot be parsed, or whose root is not a JSON
// object, yields a corrupt_config error and the original file is left
// untouched.
func Load(path string) (*Document, error) {
	content, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read registry file: %w", err)
	}

	if len(content) == 0 {
		// Missing or empty file starts from an empty JSON object.
		content = []byte("{}")
	}

	v, err := hujson.Parse(content)
	if err != nil {
		return nil, errors.NewCorruptConfigError(
			fmt.Sprintf("registry file %s is not valid JSON", path), err)
	}
	if _, ok := v.Value.(*hujson.Object); !ok {
		return nil, errors.NewCorruptConfigError(
			fmt.Sprintf("registry file %s must contain a JSON object", path), nil)
	}

	return &Document{value: v}, nil
}

// Save serializes the document with standard formatting and writes it to
// path atomically: the content goes to a temporary file in the same
// directory which is then renamed over the target, so a reader never
// observes a partially written file.
func (d *Document) Save(path string) error {
	formatted, err := d.Bytes()
	if err != nil {
		return err
	}
	if err := fileutils.AtomicWriteFile(path, formatted, filePerm); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	return nil
}

// Bytes returns the formatted serialized document. Formatting is normalized
// on every serialization, so members this tool does not touch are preserved
// by value and order rather than byte-for-byte.
func (d *Document) Bytes() ([]byte, error) {
	formatted, err := hujson.Format(d.value.Pack())
	if err != nil {
		return nil, fmt.Errorf("failed to format registry document: %w", err)
	}
	return formatted, nil
}

// Servers returns the name→entry mapping. An absent servers member is an
// empty mapping, not an error.
func (d *Document) Servers() (map[string]ServerEntry, error) {
	raw := gjson.GetBytes(d.value.Pack(), ServersKey)
	if !raw.Exists() {
		return map[string]ServerEntry{}, nil
	}
	if !raw.IsObject() {
		return nil, errors.NewCorruptConfigError(
			fmt.Sprintf("%q member is not an object", ServersKey), nil)
	}

	var parsed map[string]ServerEntry
	if err := json.Unmarshal([]byte(raw.Raw), &parsed); err != nil {
		return nil, errors.NewCorruptConfigError(
			fmt.Sprintf("%q member has an unexpected shape", ServersKey), err)
	}

	for name, entry := range parsed {
		entry.Name = name
		parsed[name] = entry
	}
	return parsed, nil
}

// ServerNames returns the registered names in sorted order.
func (d *Document) ServerNames() ([]string, error) {
	servers, err := d.Servers()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(servers))
	for name := range servers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Get returns the entry with the given name, if present.
func (d *Document) Get(name string) (ServerEntry, bool, error) {
	servers, err := d.Servers()
	if err != nil {
		return ServerEntry{}, false, err
	}
	entry, ok := servers[name]
	return entry, ok, nil
}

// Put inserts or overwrites the entry keyed by its name. This is whole-entry
// replacement: there is no merging of args or env with a prior entry.
func (d *Document) Put(entry ServerEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	d.ensureServersMember()

	entryJSON, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal server entry: %w", err)
	}

	patch := fmt.Sprintf(`[{ "op": "add", "path": "/%s/%s", "value": %s }]`,
		ServersKey, escapePointerSegment(entry.Name), entryJSON)
	if err := d.value.Patch([]byte(patch)); err != nil {
		return fmt.Errorf("failed to patch registry document: %w", err)
	}
	return nil
}

// Remove deletes the entry with the given name. Removing an absent name is a
// no-op, not an error.
func (d *Document) Remove(name string) error {
	patch := fmt.Sprintf(`[{ "op": "remove", "path": "/%s/%s" }]`,
		ServersKey, escapePointerSegment(name))
	if err := d.value.Patch([]byte(patch)); err != nil {
		// A patch that fails because the path doesn't exist means there is
		// nothing to remove.
		if strings.Contains(err.Error(), "value not found") || strings.Contains(err.Error(), "path not found") {
			return nil
		}
		return fmt.Errorf("failed to patch registry document: %w", err)
	}
	return nil
}

// Clear replaces the entire server mapping with an empty one. Members other
// than the server map are untouched.
func (d *Document) Clear() error {
	return d.setServersMember([]byte("{}"))
}

// ReplaceAll replaces the entire server mapping with the given entries.
func (d *Document) ReplaceAll(entries map[string]ServerEntry) error {
	for name, entry := range entries {
		entry.Name = name
		if err := entry.Validate(); err != nil {
			return err
		}
		entries[name] = entry
	}

	serialized, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal server entries: %w", err)
	}
	return d.setServersMember(serialized)
}

// setServersMember sets the servers member to the given JSON value. The
// "add" patch op replaces an existing object member, so this covers both the
// present and absent cases.
func (d *Document) setServersMember(value []byte) error {
	patch := fmt.Sprintf(`[{ "op": "add", "path": "/%s", "value": %s }]`, ServersKey, value)
	if err := d.value.Patch([]byte(patch)); err != nil {
		return fmt.Errorf("failed to patch registry document: %w", err)
	}
	return nil
}

// ensureServersMember creates the servers member as an empty object if the
// document does not have one yet, so that entry patches have a parent to
// land in.
func (d *Document) ensureServersMember() {
	if gjson.GetBytes(d.value.Pack(), ServersKey).Exists() {
		return
	}
	// Load guarantees the root is an object, so adding a member to it
	// cannot fail.
	_ = d.setServersMember([]byte("{}"))
}

// escapePointerSegment escapes a server name for use as a JSON pointer
// segment per RFC 6901.
func escapePointerSegment(name string) string {
	name = strings.ReplaceAll(name, "~", "~0")
	return strings.ReplaceAll(name, "/", "~1")
}
