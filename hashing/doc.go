// Package hashing wraps the bcrypt core in a framework-agnostic password
// hashing surface: a [Hasher] interface, a bcrypt driver and a driver
// registry.
//
// # Drivers
//
//   - [DriverBcrypt] produces "$2b$" hashes.
//   - [DriverBcrypt2y] produces "$2y$" hashes, for stores shared with PHP.
//
// Both drivers check hashes of every revision ("$2$", "$2a$", "$2b$",
// "$2x$", "$2y$"). Neither ever produces a legacy revision.
//
// # Quick start
//
//	m, err := hashing.NewDefaultManager() // bcrypt, cost 10
//	if err != nil { log.Fatal(err) }
//
//	hash, _ := m.Make("my-secret-password")
//	ok, _   := m.Check("my-secret-password", hash) // true
//
// # Upgrading stored hashes
//
// Call [Manager.NeedsRehash] on every successful login. It returns true when
// the stored hash carries a different cost or revision than the current
// default. Re-hash and persist immediately:
//
//	ok, _ := m.CheckWithDetect(password, storedHash)
//	if ok {
//	    if needs, _ := m.NeedsRehash(storedHash); needs {
//	        newHash, _ := m.Make(password)
//	        persist(userID, newHash)
//	    }
//	}
//
// # Input
//
// Passwords must be valid UTF-8; anything else fails with
// [bcrypt.ErrInputType]. Use the bcrypt package directly to hash raw bytes.
package hashing
