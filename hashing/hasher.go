package hashing

import "strings"

// DriverName identifies a registered hashing driver.
type DriverName string

const (
	// DriverBcrypt produces "$2b$" hashes.
	DriverBcrypt DriverName = "bcrypt"
	// DriverBcrypt2y produces "$2y$" hashes, the tag PHP's password_hash and
	// Laravel emit.
	DriverBcrypt2y DriverName = "bcrypt-2y"
)

// Hasher is the synchronous surface every driver exposes.
//
// Implementations must be safe for concurrent use by multiple goroutines.
// Every method blocks for the full cost of the computation; wrap calls with
// the async package to keep them off latency-sensitive goroutines.
type Hasher interface {
	// Make hashes password with a fresh salt and returns the encoded hash.
	Make(password string) (string, error)

	// Check reports whether password matches hash. It returns (false, nil) on
	// mismatch and (false, err) when hash is structurally invalid.
	Check(password, hash string) (bool, error)

	// NeedsRehash reports whether hash was produced with parameters that
	// differ from the hasher's configuration.
	NeedsRehash(hash string) (bool, error)

	// Info extracts metadata from hash without verifying it.
	Info(hash string) (HashInfo, error)

	// Driver returns the name the hasher registers under.
	Driver() DriverName
}

// HashInfo carries metadata parsed from an encoded hash string.
type HashInfo struct {
	// Driver is the driver that produces hashes with this prefix.
	Driver DriverName

	// Params holds the parameters encoded in the hash:
	//   "version" → string ("2", "2a", "2b", "2x" or "2y")
	//   "cost"    → int
	Params map[string]any
}

// DetectDriver maps a hash prefix to the driver that produces it. Legacy
// "$2$", "$2a$" and "$2x$" hashes map to [DriverBcrypt], which can check
// them but never produces them.
//
// The second return value is false when the prefix is not bcrypt's.
func DetectDriver(hash string) (DriverName, bool) {
	switch {
	case strings.HasPrefix(hash, "$2y$"):
		return DriverBcrypt2y, true
	case strings.HasPrefix(hash, "$2b$"),
		strings.HasPrefix(hash, "$2a$"),
		strings.HasPrefix(hash, "$2x$"),
		strings.HasPrefix(hash, "$2$"):
		return DriverBcrypt, true
	default:
		return "", false
	}
}
