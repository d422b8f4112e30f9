package stb34101

import "testing"

func TestLevelWidths(t *testing.T) {
	cases := []struct {
		l          Level
		valid      bool
		field, sig int
	}{
		{L96, false, 24, 36},
		{L128, true, 32, 48},
		{L192, true, 48, 72},
		{L256, true, 64, 96},
		{Level(160), false, 40, 60},
	}
	for _, c := range cases {
		if got := c.l.Valid(); got != c.valid {
			t.Errorf("Level(%d).Valid() = %v", c.l, got)
		}
		if got := c.l.FieldBytes(); got != c.field {
			t.Errorf("Level(%d).FieldBytes() = %d, want %d", c.l, got, c.field)
		}
		if got := c.l.OrderBytes(); got != c.field {
			t.Errorf("Level(%d).OrderBytes() = %d, want %d", c.l, got, c.field)
		}
		if got := c.l.HashBytes(); got != c.field {
			t.Errorf("Level(%d).HashBytes() = %d, want %d", c.l, got, c.field)
		}
		if got := c.l.SigBytes(); got != c.sig {
			t.Errorf("Level(%d).SigBytes() = %d, want %d", c.l, got, c.sig)
		}
	}
}
