// Package resolver decides which Jest configuration file a test run should use.
//
// Given the workspace a target file belongs to and a settings Snapshot, a
// ConfigResolver produces the working directory for the Jest process and the path
// passed as --config. An explicit configPath setting (a single path or an ordered
// glob map) takes precedence; otherwise conventional config files are searched for
// from the directory holding the target file upward to the workspace root.
//
// Separator conventions differ by branch and are kept for compatibility with
// existing consumers: single-path settings come back with native separators,
// glob-map results always use forward slashes.
package resolver
