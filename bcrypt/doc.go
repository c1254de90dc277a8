// Package bcrypt implements the bcrypt adaptive password hash: salt
// generation, the expensive Blowfish key schedule, the hash string format and
// constant-time verification.
//
// # Hash format
//
//	$2b$10$N9qo8uLOickgx2ZMRZoMye IjZAgcfl7p92ldGxad68LJZdL17lhWy
//	\_/ \/ \____________________/\_____________________________/
//	ver cost     22-char salt              31-char digest
//
// (without the space). The salt and digest use bcrypt's own base64 alphabet
// "./A-Za-z0-9", see [Encode]. The string is self-describing: [Verify] and
// [ExtractCost] need nothing else.
//
// # Revisions
//
// Only "$2b$" is produced by [GenerateSalt]. Hashes and salts tagged "$2$",
// "$2a$", "$2x$" and "$2y$" are accepted everywhere and hashed the way the
// implementation that introduced the tag did, see [Version].
//
// # Secret length
//
// Only the first 72 bytes of a secret contribute to the hash. Longer secrets
// that share those bytes produce the same hash under the same salt.
//
// The key is the secret followed by a NUL terminator, repeated to fill 72
// bytes. Secrets consisting only of NUL bytes, including the empty secret,
// therefore all produce the same hash under the same salt.
//
// # Concurrency
//
// Every function is synchronous, CPU bound and safe for concurrent use. Each
// call owns a private copy of the Blowfish state. A call at cost c performs
// about 2^c key expansions, from well under a millisecond at cost 4 to
// seconds at cost 16 and above, and cannot be interrupted; the async package
// runs calls on a bounded worker pool.
package bcrypt
