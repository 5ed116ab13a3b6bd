// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package json provides the string-encoded option indices used by API
// replies.
package json

import "strconv"

const Null = "null"

// Uint8 is a uint8 that is JSON marshaled as a string.
type Uint8 uint8

func (u Uint8) MarshalJSON() ([]byte, error) {
	return quote(uint64(u)), nil
}

func (u *Uint8) UnmarshalJSON(b []byte) error {
	val, err := unquote(b, 8)
	if err != nil {
		return err
	}
	*u = Uint8(val)
	return nil
}

func quote(val uint64) []byte {
	return []byte(`"` + strconv.FormatUint(val, 10) + `"`)
}

// unquote accepts both quoted and bare numbers. null decodes as zero.
func unquote(b []byte, bitSize int) (uint64, error) {
	str := string(b)
	if str == Null {
		return 0, nil
	}
	if len(str) >= 2 {
		if lastIndex := len(str) - 1; str[0] == '"' && str[lastIndex] == '"' {
			str = str[1:lastIndex]
		}
	}
	return strconv.ParseUint(str, 10, bitSize)
}
