package stripekit

import (
	"strings"
	"testing"
)

func Test_Scanlines(t *testing.T) {
	input := `# comment line

whsec_first
  whsec_second

	# indented comment
whsec_third
`

	lines := make([]string, 0, 3)

	if err := scanlines(strings.NewReader(input), func(line string) {
		lines = append(lines, line)
	}); err != nil {
		t.Fatal(err)
	}

	expected := []string{"whsec_first", "whsec_second", "whsec_third"}

	if len(lines) != len(expected) {
		t.Fatalf("unexpected line count, expected=%d, got=%d\n", len(expected), len(lines))
	}

	for i := range expected {
		if lines[i] != expected[i] {
			t.Errorf("lines[%d] - expected=%q, got=%q\n", i, expected[i], lines[i])
		}
	}
}
