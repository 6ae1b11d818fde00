// Package registry provides a generic thread-safe registry that rejects
// duplicate keys and can be sealed once configuration is complete.
//
// # Basic Usage
//
//	openers := registry.New[string, Opener]()
//	openers.MustRegister("file", openFile)
//	openers.MustRegister("sqlite", openSQLite)
//
//	open, ok := openers.Get("file")
//
// Registering an existing key fails with ErrDuplicate; registrations are
// never silently replaced.
//
// # Sealing
//
// Seal freezes the key set. Later Register calls fail with ErrSealed while
// lookups keep working:
//
//	openers.Seal()
//	err := openers.Register("s3", openS3) // ErrSealed
//
// # Thread Safety
//
// All Registry methods are safe for concurrent use. Keys returns a sorted
// copy taken under the read lock.
package registry
