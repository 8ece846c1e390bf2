package tvec

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yusuke-matsunaga/druid-sub002/netlist"
)

// HexStr renders tv as its canonical hex string: PPIPrev then PI, each bit
// sequence grouped into nibbles of 4 (MSB-first, padded on the right with
// X bits to a multiple of 4). A fully-defined nibble is one uppercase hex digit
// followed by "==" filler; a nibble containing any X lifts to a lowercase
// "x" followed by a mask hex digit (1 = defined, 0 = X) and a value hex
// digit (X bits read as 0) — three characters per nibble either way, an X
// on any bit visibly marking the whole nibble per spec §6.
func (tv *TestVector) HexStr() string {
	var sb strings.Builder
	encodeBits(&sb, tv.PPIPrev)
	sb.WriteByte('|')
	encodeBits(&sb, tv.PI)

	return sb.String()
}

func encodeBits(sb *strings.Builder, bits []Bit) {
	for i := 0; i < len(bits); i += 4 {
		var mask, val uint8
		for j := 0; j < 4; j++ {
			mask <<= 1
			val <<= 1
			if i+j < len(bits) {
				b := bits[i+j]
				if b != X {
					mask |= 1
				}
				if b == One {
					val |= 1
				}
			} else {
				// padding past the end of the vector reads as X
			}
		}
		if mask == 0xF {
			fmt.Fprintf(sb, "%X==", val)
		} else {
			fmt.Fprintf(sb, "x%X%X", mask, val)
		}
	}
}

// Parse decodes a string produced by HexStr back into a TestVector sized
// for nl. Returns ErrLengthMismatch if the decoded segment lengths don't
// match nl's PPI/PI counts.
func Parse(nl *netlist.Netlist, s string) (*TestVector, error) {
	parts := strings.SplitN(s, "|", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("%w: missing '|' separator", ErrLengthMismatch)
	}

	tv := New(nl)

	prevBits, err := decodeBits(parts[0])
	if err != nil {
		return nil, err
	}
	if len(prevBits) < len(tv.PPIPrev) {
		return nil, fmt.Errorf("%w: PPIPrev", ErrLengthMismatch)
	}
	copy(tv.PPIPrev, prevBits)

	curBits, err := decodeBits(parts[1])
	if err != nil {
		return nil, err
	}
	if len(curBits) < len(tv.PI) {
		return nil, fmt.Errorf("%w: PI", ErrLengthMismatch)
	}
	copy(tv.PI, curBits)

	return tv, nil
}

func decodeBits(s string) ([]Bit, error) {
	var bits []Bit
	for i := 0; i < len(s); i += 3 {
		if i+3 > len(s) {
			return nil, fmt.Errorf("%w: truncated nibble group", ErrLengthMismatch)
		}
		group := s[i : i+3]
		if group[0] == 'x' {
			maskN, err1 := strconv.ParseUint(group[1:2], 16, 8)
			valN, err2 := strconv.ParseUint(group[2:3], 16, 8)
			if err1 != nil || err2 != nil {
				return nil, fmt.Errorf("%w: bad nibble %q", ErrLengthMismatch, group)
			}
			mask, val := uint8(maskN), uint8(valN)
			for j := 3; j >= 0; j-- {
				if mask&(1<<uint(j)) == 0 {
					bits = append(bits, X)
				} else if val&(1<<uint(j)) != 0 {
					bits = append(bits, One)
				} else {
					bits = append(bits, Zero)
				}
			}
		} else {
			valN, err := strconv.ParseUint(group[0:1], 16, 8)
			if err != nil {
				return nil, fmt.Errorf("%w: bad nibble %q", ErrLengthMismatch, group)
			}
			val := uint8(valN)
			for j := 3; j >= 0; j-- {
				if val&(1<<uint(j)) != 0 {
					bits = append(bits, One)
				} else {
					bits = append(bits, Zero)
				}
			}
		}
	}

	return bits, nil
}
