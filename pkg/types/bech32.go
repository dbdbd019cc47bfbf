package types

import (
	"fmt"
	"strings"
)

// Bech32 charset used for encoding (BIP-173).
const bech32Charset = "qpzry9x8gf2tvdw0s3jn54khce6mua7l"

// MaxBech32Length is the longest string accepted by Bech32Decode.
// Shelley addresses lift the BIP-173 limit of 90 characters (CIP-5).
const MaxBech32Length = 1023

// bech32CharsetRev maps bech32 characters to their 5-bit values. -1 = invalid.
var bech32CharsetRev [128]int8

func init() {
	for i := range bech32CharsetRev {
		bech32CharsetRev[i] = -1
	}
	for i, c := range bech32Charset {
		bech32CharsetRev[c] = int8(i)
	}
}

// Bech32Encode encodes a human-readable part and data bytes into a bech32 string.
func Bech32Encode(hrp string, data []byte) (string, error) {
	if err := checkHRP(hrp); err != nil {
		return "", err
	}

	conv, err := convertBits(data, 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("bech32: convert bits: %w", err)
	}
	chk := bech32CreateChecksum(hrp, conv)

	var sb strings.Builder
	sb.Grow(len(hrp) + 1 + len(conv) + len(chk))
	sb.WriteString(hrp)
	sb.WriteByte('1')
	for _, b := range append(conv, chk...) {
		sb.WriteByte(bech32Charset[b])
	}
	if sb.Len() > MaxBech32Length {
		return "", fmt.Errorf("bech32: encoded length %d exceeds %d", sb.Len(), MaxBech32Length)
	}
	return sb.String(), nil
}

// Bech32Decode decodes a bech32 string into the human-readable part and data bytes.
func Bech32Decode(s string) (string, []byte, error) {
	switch {
	case s == "":
		return "", nil, fmt.Errorf("bech32: empty string")
	case len(s) > MaxBech32Length:
		return "", nil, fmt.Errorf("bech32: length %d exceeds %d", len(s), MaxBech32Length)
	case strings.ToLower(s) != s && strings.ToUpper(s) != s:
		return "", nil, fmt.Errorf("bech32: mixed case")
	}
	s = strings.ToLower(s)

	sep := strings.LastIndexByte(s, '1')
	if sep < 1 {
		return "", nil, fmt.Errorf("bech32: missing separator")
	}
	if sep+7 > len(s) {
		return "", nil, fmt.Errorf("bech32: too short")
	}
	hrp := s[:sep]
	if err := checkHRP(hrp); err != nil {
		return "", nil, err
	}

	data5 := make([]byte, 0, len(s)-sep-1)
	for _, c := range s[sep+1:] {
		if c > 127 || bech32CharsetRev[c] < 0 {
			return "", nil, fmt.Errorf("bech32: invalid character %q", c)
		}
		data5 = append(data5, byte(bech32CharsetRev[c]))
	}
	if !bech32VerifyChecksum(hrp, data5) {
		return "", nil, fmt.Errorf("bech32: invalid checksum")
	}

	data8, err := convertBits(data5[:len(data5)-6], 5, 8, false)
	if err != nil {
		return "", nil, fmt.Errorf("bech32: convert bits: %w", err)
	}
	return hrp, data8, nil
}

func checkHRP(hrp string) error {
	if hrp == "" {
		return fmt.Errorf("bech32: empty HRP")
	}
	for _, c := range hrp {
		if c < 33 || c > 126 {
			return fmt.Errorf("bech32: invalid HRP character %q", c)
		}
	}
	return nil
}

var bech32Generator = [5]uint32{0x3b6a57b2, 0x26508e6d, 0x1ea119fa, 0x3d4233dd, 0x2a1462b3}

func bech32Polymod(values []byte) uint32 {
	chk := uint32(1)
	for _, v := range values {
		top := chk >> 25
		chk = (chk&0x1ffffff)<<5 ^ uint32(v)
		for i, g := range bech32Generator {
			if (top>>uint(i))&1 == 1 {
				chk ^= g
			}
		}
	}
	return chk
}

// bech32HRPExpand expands the HRP for checksum computation.
func bech32HRPExpand(hrp string) []byte {
	ret := make([]byte, len(hrp)*2+1)
	for i := 0; i < len(hrp); i++ {
		ret[i] = hrp[i] >> 5
		ret[len(hrp)+1+i] = hrp[i] & 31
	}
	return ret
}

func bech32CreateChecksum(hrp string, data []byte) []byte {
	values := append(bech32HRPExpand(hrp), data...)
	values = append(values, make([]byte, 6)...)
	mod := bech32Polymod(values) ^ 1
	ret := make([]byte, 6)
	for i := range ret {
		ret[i] = byte(mod>>uint(5*(5-i))) & 31
	}
	return ret
}

func bech32VerifyChecksum(hrp string, data []byte) bool {
	return bech32Polymod(append(bech32HRPExpand(hrp), data...)) == 1
}

// convertBits regroups data from fromBits-wide to toBits-wide values.
// pad controls whether an incomplete trailing group is zero-padded.
func convertBits(data []byte, fromBits, toBits uint, pad bool) ([]byte, error) {
	var (
		acc  uint32
		bits uint
		ret  []byte
	)
	maxv := uint32(1)<<toBits - 1

	for _, b := range data {
		if uint32(b)>>fromBits != 0 {
			return nil, fmt.Errorf("invalid data byte: %d", b)
		}
		acc = acc<<fromBits | uint32(b)
		bits += fromBits
		for bits >= toBits {
			bits -= toBits
			ret = append(ret, byte(acc>>bits&maxv))
		}
	}

	switch {
	case pad && bits > 0:
		ret = append(ret, byte(acc<<(toBits-bits)&maxv))
	case !pad && (bits >= fromBits || acc<<(toBits-bits)&maxv != 0):
		return nil, fmt.Errorf("non-zero padding")
	}
	return ret, nil
}
