// Package cache stores rendered graph artifacts so repeated renders of an
// unchanged graph skip the expensive Graphviz and rsvg-convert work.
//
// Keys derive from a SHA-256 hash of the exported graph plus the render
// options, so any node, edge, or option change produces a fresh key.
// [FileCache] persists entries under a directory; [NullCache] disables
// caching entirely.
package cache
