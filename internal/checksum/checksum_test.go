package checksum

import "testing"

func TestSum(t *testing.T) {
	// sha256("") is a well-known constant.
	if got := Sum(nil); got != "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855" {
		t.Errorf("Sum(nil) = %s", got)
	}
	if Sum([]byte("a")) == Sum([]byte("b")) {
		t.Error("distinct inputs share a digest")
	}
}

func TestVerify(t *testing.T) {
	data := []byte("---\nmetadata:\n    title: x\n---\n\nbody\n")

	if err := Verify(data, Sum(data)); err != nil {
		t.Errorf("Verify: %v", err)
	}
	if err := Verify(data[:10], Sum(data)); err == nil {
		t.Error("Verify accepted truncated data")
	}
}
