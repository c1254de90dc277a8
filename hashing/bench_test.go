package hashing_test

import (
	"testing"

	"github.com/hasbyte1/go-bcrypt/bcrypt"
	"github.com/hasbyte1/go-bcrypt/hashing"
)

// ──────────────────────────────────────────────────────────────────────────────
// Bcrypt benchmarks
// ──────────────────────────────────────────────────────────────────────────────
//
// BenchmarkBcrypt_DefaultCost_Make is the real-world cost;
// BenchmarkBcrypt_MinCost_* measure wrapper overhead only.

func BenchmarkBcrypt_MinCost_Make(b *testing.B) {
	h, _ := hashing.NewBcryptHasher(hashing.BcryptOptions{Cost: bcrypt.MinCost})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = h.Make("bench-password")
	}
}

func BenchmarkBcrypt_MinCost_Check(b *testing.B) {
	h, _ := hashing.NewBcryptHasher(hashing.BcryptOptions{Cost: bcrypt.MinCost})
	hash, _ := h.Make("bench-password")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = h.Check("bench-password", hash)
	}
}

func BenchmarkBcrypt_DefaultCost_Make(b *testing.B) {
	h, _ := hashing.NewBcryptHasher(hashing.DefaultBcryptOptions())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = h.Make("bench-password")
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Manager benchmarks
// ──────────────────────────────────────────────────────────────────────────────

func BenchmarkManager_Make(b *testing.B) {
	m := newTestManager(b)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = m.Make("bench-password")
	}
}

func BenchmarkManager_CheckWithDetect(b *testing.B) {
	m := newTestManager(b)
	hash, _ := m.Make("bench-password")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = m.CheckWithDetect("bench-password", hash)
	}
}
