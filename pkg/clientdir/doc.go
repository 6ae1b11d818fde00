// Package clientdir provides a concurrent, hot-reloadable directory of trusted
// OAuth2 client registrations.
//
// A Directory holds exactly one immutable Snapshot at a time. Lookups take a
// single atomic load of the current snapshot and run entirely against it, so a
// concurrent Reload is never observed half-applied and reads never block.
//
// # Basic Usage
//
//	dir, err := clientdir.New([]clientdir.ClientRegistration{
//	    {ClientAlias: "github", ClientID: "abc123"},
//	    {ClientAlias: "google", ClientID: "xyz789"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	reg, ok, err := dir.ByAlias("github")
//	regs, err := dir.ByClientID("abc123")
//	all := dir.All()
//
// "Not found" is never an error: ByAlias reports ok == false and ByClientID
// returns an empty slice. Blank keys fail with ErrInvalidArgument.
//
// # Reloading
//
// Reload validates the replacement set before touching shared state:
//
//	if err := dir.Reload(next); err != nil {
//	    // dir still serves the previous snapshot
//	}
//
// The set must be non-empty and aliases must be unique. The first duplicate
// alias in input order is reported in a *ValidationError.
//
// # Consistent Multi-Lookups
//
// Each Directory method call sees one snapshot. When several lookups must
// agree with each other, take the snapshot once:
//
//	snap := dir.Snapshot()
//	reg, ok, _ := snap.ByAlias("github")
//	siblings, _ := snap.ByClientID(reg.ClientID)
//
// # Ownership
//
// Registrations are deep-copied on the way in and on the way out. Values
// returned by lookups belong to the caller.
//
// Alias and client-id comparison is case-sensitive.
package clientdir
