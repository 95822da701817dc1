package pinglog

import (
	"testing"

	"github.com/hamed0406/pulseping/internal/repo/memory"
)

func TestFlags_Options(t *testing.T) {
	if got := len(Flags{}.Options()); got != 0 {
		t.Fatalf("zero flags should add no options, got %d", got)
	}

	s := New(memory.New(), nil, Flags{PartitionLocks: true, NativeAppend: true}.Options()...)
	if s.locks == nil {
		t.Fatalf("partition locks not enabled")
	}
	if !s.nativeAppend {
		t.Fatalf("native append not enabled")
	}
}
