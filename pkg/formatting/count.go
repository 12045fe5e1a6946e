package formatting

import "strconv"

// FormatCount renders an integer with comma-separated thousands groups,
// e.g. 1234567 -> "1,234,567".
func FormatCount(n int64) string {
	s := strconv.FormatInt(n, 10)

	start := 0
	if s[0] == '-' {
		start = 1
	}

	digits := len(s) - start
	if digits <= 3 {
		return s
	}

	var b []byte
	b = append(b, s[:start]...)

	lead := digits % 3
	if lead == 0 {
		lead = 3
	}
	b = append(b, s[start:start+lead]...)

	for i := start + lead; i < len(s); i += 3 {
		b = append(b, ',')
		b = append(b, s[i:i+3]...)
	}

	return string(b)
}
