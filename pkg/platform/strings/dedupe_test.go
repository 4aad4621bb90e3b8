package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitList(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected []string
	}{
		{
			name:     "empty input",
			raw:      "",
			expected: nil,
		},
		{
			name:     "only separators and blanks",
			raw:      " , ,, ",
			expected: nil,
		},
		{
			name:     "trims and drops empties",
			raw:      " kafka-1:9092 ,kafka-2:9092, ",
			expected: []string{"kafka-1:9092", "kafka-2:9092"},
		},
		{
			name:     "removes repeats preserving order",
			raw:      "b,a,b,c,a",
			expected: []string{"b", "a", "c"},
		},
		{
			name:     "preserves case",
			raw:      "Broker,broker",
			expected: []string{"Broker", "broker"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SplitList(tt.raw, ","))
		})
	}
}
