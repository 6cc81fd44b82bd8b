// Package file provides a file-based implementation of the ConfigStore
// port. Configuration persists as TOML in the local filesystem, with
// nested tables exposed as dot-notation keys (e.g. "google.client_id").
package file
