// Package rng collects entropy from hardware, system and timing sources,
// gates each source behind the FIPS 140 statistical tests, and drives a
// reference-counted process-wide generator built on the belt cipher in
// counter mode.
package rng

import "math/bits"

// SampleSize is the length in bytes of the sample each statistical test
// expects, 20000 bits.
const SampleSize = 2500

// MonobitOK counts one bits over the sample.
func MonobitOK(sample []byte) bool {
	if len(sample) != SampleSize {
		return false
	}
	n := 0
	for _, b := range sample {
		n += bits.OnesCount8(b)
	}
	return 9725 < n && n < 10275
}

// PokerOK bins the 5000 half-byte segments and checks the chi-square
// statistic scaled to integers: 10800 < 16*sum(n_i^2) - 5000^2 < 230850.
func PokerOK(sample []byte) bool {
	if len(sample) != SampleSize {
		return false
	}
	var n [16]int64
	for _, b := range sample {
		n[b&0x0F]++
		n[b>>4]++
	}
	var sum int64
	for _, c := range n {
		sum += c * c
	}
	t := 16*sum - 25000000
	return 10800 < t && t < 230850
}

// runsintervals holds the acceptance interval per run length 1..6, with
// runs of six or more sharing the last bucket.
var runsIntervals = [6][2]int{
	{2315, 2685},
	{1114, 1386},
	{527, 723},
	{240, 384},
	{103, 209},
	{103, 209},
}

// RunsOK buckets the maximal runs of zeros and of ones by length and
// checks every bucket against its interval. Bits are taken in
// little-endian order within each byte.
func RunsOK(sample []byte) bool {
	if len(sample) != SampleSize {
		return false
	}
	var runs [2][6]int
	cur := sample[0] & 1
	length := 0
	for _, b := range sample {
		for i := 0; i < 8; i++ {
			bit := (b >> uint(i)) & 1
			if bit == cur {
				length++
				continue
			}
			runs[cur][min6(length)-1]++
			cur = bit
			length = 1
		}
	}
	runs[cur][min6(length)-1]++
	for v := 0; v < 2; v++ {
		for i, iv := range runsIntervals {
			if runs[v][i] < iv[0] || runs[v][i] > iv[1] {
				return false
			}
		}
	}
	return true
}

func min6(n int) int {
	if n > 6 {
		return 6
	}
	return n
}

// LongRunsOK rejects the sample if any run reaches 26 bits.
func LongRunsOK(sample []byte) bool {
	if len(sample) != SampleSize {
		return false
	}
	cur := sample[0] & 1
	length := 0
	for _, b := range sample {
		for i := 0; i < 8; i++ {
			bit := (b >> uint(i)) & 1
			if bit == cur {
				length++
				if length >= 26 {
					return false
				}
				continue
			}
			cur = bit
			length = 1
		}
	}
	return true
}

// SampleOK runs all four statistical tests.
func SampleOK(sample []byte) bool {
	return MonobitOK(sample) && PokerOK(sample) && RunsOK(sample) && LongRunsOK(sample)
}
