package bcrypt

// ConstantTimeCompare reports whether a and b are equal. Every byte of a is
// examined whatever the position of the first difference, so the running
// time depends only on len(a).
func ConstantTimeCompare(a, b string) bool {
	return constantTimeCompare(a, b, nil)
}

// constantTimeCompare ORs the difference of every byte pair into an
// accumulator. visit, when set, observes each index as it is examined.
func constantTimeCompare(a, b string, visit func(i int)) bool {
	diff := uint(len(a) ^ len(b))
	for i := 0; i < len(a); i++ {
		var c byte
		if i < len(b) {
			c = b[i]
		}
		diff |= uint(a[i] ^ c)
		if visit != nil {
			visit(i)
		}
	}
	return diff == 0
}
