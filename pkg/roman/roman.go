// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package roman converts Roman numerals found in running text to Arabic
// digits. The scanner is context-aware: first-person "I", dotted
// abbreviations like "I.D.", and tokens glued to symbols are protected
// from conversion, and the protection rules live in a declarative table
// so the policy is testable apart from the scan loop.
package roman

import (
	"regexp"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// symbol values for subtractive summation
var symbolValues = map[byte]int{
	'I': 1,
	'V': 5,
	'X': 10,
	'L': 50,
	'C': 100,
	'D': 500,
	'M': 1000,
}

// romanDigits pairs values with their numeral strings, largest first,
// subtractive forms included.
var romanDigits = []struct {
	value   int
	numeral string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

// strictNumeral accepts exactly the well-formed numerals 1..3999: at most
// three repeats of a symbol, subtractive pairs only at the allowed ratios.
var strictNumeral = regexp.MustCompile(`^M{0,3}(?:CM|CD|D?C{0,3})(?:XC|XL|L?X{0,3})(?:IX|IV|V?I{0,3})$`)

// 🔢 ToArabic converts one well-formed Roman numeral to its integer value.
// Malformed input is an error, never a partial result.
func ToArabic(numeral string) (int, error) {
	upper := strings.ToUpper(numeral)
	if upper == "" {
		return 0, errors.New("empty numeral")
	}
	if !strictNumeral.MatchString(upper) {
		return 0, errors.Errorf("numeral %q: not a well-formed roman numeral", numeral)
	}

	total := 0
	prev := 0
	for i := 0; i < len(upper); i++ {
		val := symbolValues[upper[i]]
		total += val
		// a smaller symbol before a larger one signals subtraction; it
		// was already added once, so remove it twice
		if prev < val {
			total -= 2 * prev
		}
		prev = val
	}
	return total, nil
}

// 🔡 ToRoman renders n as a Roman numeral. Only 1..3999 is representable.
func ToRoman(n int) (string, error) {
	if n < 1 || n > 3999 {
		return "", errors.Errorf("value %d: roman numerals cover 1..3999", n)
	}
	var sb strings.Builder
	for _, d := range romanDigits {
		for n >= d.value {
			sb.WriteString(d.numeral)
			n -= d.value
		}
	}
	return sb.String(), nil
}

// IsWellFormed reports whether the token passes the strict grammar.
func IsWellFormed(numeral string) bool {
	upper := strings.ToUpper(numeral)
	return upper != "" && strictNumeral.MatchString(upper)
}
