package measurement

import "testing"

func TestClassify(t *testing.T) {
	th := DefaultThresholds()
	cases := []struct {
		mgDl uint16
		want Range
	}{
		{40, RangeVeryLow},
		{54, RangeLow},
		{60, RangeLow},
		{120, RangeInRange},
		{180, RangeInRange},
		{200, RangeHigh},
		{250, RangeHigh},
		{300, RangeVeryHigh},
	}
	for _, c := range cases {
		got := Classify(Reading{MgDl: c.mgDl}, th)
		if got != c.want {
			t.Errorf("Classify(%d) = %v, want %v", c.mgDl, got, c.want)
		}
	}
}

func TestUnitDerivation(t *testing.T) {
	// Unit mmol/L, value 8.4 -> mg/dL = round(8.4*18) = 151, mmol/L = 151/18.
	mgDl := uint16(151)
	r := deriveReading(0, 0, mgDl)
	if r.MgDl != 151 {
		t.Fatalf("MgDl = %d, want 151", r.MgDl)
	}
	want := float32(151.0 / 18.0)
	if r.MmolL != want {
		t.Fatalf("MmolL = %v, want %v", r.MmolL, want)
	}
}
