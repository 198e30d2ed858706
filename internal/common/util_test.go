package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// ---------- WipeByteArray ----------

func TestWipeByteArray_ZerosBuffer(t *testing.T) {
	buf := []byte{1, 2, 3, 4, 5}
	WipeByteArray(buf)
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("expected buf[%d]==0, got %d", i, v)
		}
	}
}

func TestWipeByteArray_NilSafe(t *testing.T) {
	WipeByteArray(nil)
}

// ---------- SplitList ----------

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"owner", "sitter"}, SplitList("Owner, sitter"))
	assert.Equal(t, []string{"owner"}, SplitList("  owner  "))
	assert.Empty(t, SplitList(" , "))
}
