package hashing

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func TestWriterMatchesDirectHash(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog, 81 bytes of puzzle data and more")

	var sink bytes.Buffer
	hw := NewWriter(&sink, sha256.New())

	for _, chunk := range [][]byte{data[:10], data[10:40], data[40:]} {
		n, err := hw.Write(chunk)
		if err != nil {
			t.Fatalf("Write: %v", err)
		}
		if n != len(chunk) {
			t.Fatalf("short write: got %d want %d", n, len(chunk))
		}
	}

	if sink.String() != string(data) {
		t.Fatalf("sink did not receive all bytes unchanged")
	}

	got := hex.EncodeToString(hw.Sum(nil))
	want := hex.EncodeToString(sha256Sum(data))
	if got != want {
		t.Fatalf("hash mismatch: got %s want %s", got, want)
	}
}

func sha256Sum(data []byte) []byte {
	h := sha256.New()
	_, _ = h.Write(data)
	return h.Sum(nil)
}
