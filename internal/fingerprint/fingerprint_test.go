package fingerprint

import (
	"strings"
	"testing"
)

func TestSumKnownVector(t *testing.T) {
	// FIPS 180-2 test vector
	got := Sum([]byte("abc"))
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got != want {
		t.Errorf("Sum(abc) = %s, want %s", got, want)
	}
}

func TestSumDeterministic(t *testing.T) {
	data := []byte("the quick brown fox")
	first := Sum(data)
	for i := 0; i < 3; i++ {
		if got := Sum(data); got != first {
			t.Fatalf("digest unstable: %s vs %s", got, first)
		}
	}
}

func TestSumSensitivity(t *testing.T) {
	data := make([]byte, 1024)
	base := Sum(data)

	data[512] ^= 0x01
	if Sum(data) == base {
		t.Error("single byte change did not change the digest")
	}
}

func TestSumReader(t *testing.T) {
	data := "stream me"
	fromReader, err := SumReader(strings.NewReader(data))
	if err != nil {
		t.Fatalf("SumReader failed: %v", err)
	}
	if fromReader != Sum([]byte(data)) {
		t.Error("SumReader disagrees with Sum")
	}
}
