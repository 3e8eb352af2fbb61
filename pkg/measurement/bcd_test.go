package measurement

import "testing"

func TestDecodeAbsoluteTime(t *testing.T) {
	// 2024-12-25T12:00:00Z, per SPEC_FULL.md §8 scenario 1.
	bcd := []byte{0x20, 0x24, 0x12, 0x25, 0x12, 0x00, 0x00, 0x00}
	epoch, err := DecodeAbsoluteTime(bcd)
	if err != nil {
		t.Fatalf("DecodeAbsoluteTime: %v", err)
	}
	const want = 1735128000
	if epoch != want {
		t.Fatalf("epoch = %d, want %d", epoch, want)
	}
}

func TestDecodeAbsoluteTimeBadLength(t *testing.T) {
	if _, err := DecodeAbsoluteTime([]byte{0x20, 0x24}); err != ErrBadAbsoluteTime {
		t.Fatalf("err = %v, want ErrBadAbsoluteTime", err)
	}
}

func TestDecodeAbsoluteTimeBadMonth(t *testing.T) {
	bcd := []byte{0x20, 0x24, 0x13, 0x25, 0x12, 0x00, 0x00, 0x00} // month 13
	if _, err := DecodeAbsoluteTime(bcd); err != ErrBadAbsoluteTime {
		t.Fatalf("err = %v, want ErrBadAbsoluteTime", err)
	}
}
