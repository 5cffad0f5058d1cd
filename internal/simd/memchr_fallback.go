//go:build !amd64

package simd

// Without CPU feature detection the wide path is entered whenever a full
// 8-byte chunk is available.
const wideScanMin = 8
