package sink

import "testing"

func TestSetAndRevertToNative(t *testing.T) {
	var gotX, gotY, gotZ uint16
	var gotLen int
	Set(func(x, y, z uint16, pixels []byte) {
		gotX, gotY, gotZ = x, y, z
		gotLen = len(pixels)
	})
	Upload(1, 2, 3, []byte{1, 2, 3, 4})
	if gotX != 1 || gotY != 2 || gotZ != 3 || gotLen != 4 {
		t.Fatalf("custom sink did not observe upload: x=%d y=%d z=%d len=%d", gotX, gotY, gotZ, gotLen)
	}

	Set(nil)
	// Should not panic and should not call the replaced closure again.
	gotLen = -1
	Upload(0, 0, 0, nil)
	if gotLen != -1 {
		t.Fatalf("native sink should not reach the previously installed closure")
	}
}
