package topcodes

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDumpThresholdWritesPNG(t *testing.T) {
	const w, h = 16, 16
	pix := make([]byte, w*h*3)
	for i := range pix {
		pix[i] = 255
	}

	s := NewScanner(w, h)
	if _, err := s.ScanRGBU8(pix); err != nil {
		t.Fatalf("ScanRGBU8: %v", err)
	}

	path := filepath.Join(t.TempDir(), "threshold.png")
	if err := s.DumpThreshold(path); err != nil {
		t.Fatalf("DumpThreshold: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat output file: %v", err)
	}
	if info.Size() == 0 {
		t.Error("DumpThreshold wrote an empty file")
	}
}
