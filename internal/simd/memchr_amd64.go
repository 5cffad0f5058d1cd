//go:build amd64

package simd

import "golang.org/x/sys/cpu"

// CPU feature detection set at package initialization, used to pick how
// small an input is still worth the wide-scan setup. Wide vector units
// make the SWAR loop's load/xor pipeline effectively free, so with
// AVX2-class hardware it pays off from the very first 8-byte chunk.
var hasAVX2 = cpu.X86.HasAVX2

var wideScanMin = wideScanThreshold()

func wideScanThreshold() int {
	if hasAVX2 {
		return 8
	}
	return 32
}
