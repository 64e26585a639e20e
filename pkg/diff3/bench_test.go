package diff3

import "testing"

func BenchmarkMergeNoConflict(b *testing.B) {
	base := []byte("a\nb\nc\nd\n")
	left := []byte("a\nb left\nc\nd\n")
	right := []byte("a\nb\nc\nd right\n")

	b.SetBytes(int64(len(base)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		result := Merge(base, left, right)
		if result.HasConflicts {
			b.Fatal("expected clean merge")
		}
	}
}

func BenchmarkMergeConflict(b *testing.B) {
	base := []byte("a\nb\nc\nd\n")
	left := []byte("a\nb left\nc\nd\n")
	right := []byte("a\nb right\nc\nd\n")

	b.SetBytes(int64(len(base)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		result := Merge(base, left, right)
		if !result.HasConflicts {
			b.Fatal("expected conflict")
		}
	}
}
