// Package store provides file-based persistence for aethos profiles.
//
// It contains concrete implementations of the domain storage interfaces,
// serialising data as JSON on disk. All methods are safe for concurrent use
// within one process via internal locking; writers in different processes are
// not coordinated and the last whole-file overwrite wins.
//
// Layout under the data root:
//
//	<root>/aethos-linux/identity-<profile>.json           (0600, plaintext seed)
//	<root>/aethos-linux/session-cache-<profile>.enc.json  (0600, ChaCha20-Poly1305)
//
// The package includes stores for:
//   - Identity records (IdentityFileStore)
//   - Encrypted relay session caches (SessionCacheFileStore)
package store
