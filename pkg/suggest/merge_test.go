package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMerge(t *testing.T) {
	tests := []struct {
		name      string
		titles    []string
		locations []string
		want      []Suggestion
	}{
		{
			name:      "smaller location first",
			titles:    []string{"Bar"},
			locations: []string{"Apple"},
			want: []Suggestion{
				{Value: "Apple", Origin: OriginLocation},
				{Value: "Bar", Origin: OriginTitle},
			},
		},
		{
			name:      "tie goes to location",
			titles:    []string{"Same"},
			locations: []string{"Same"},
			want: []Suggestion{
				{Value: "Same", Origin: OriginLocation},
				{Value: "Same", Origin: OriginTitle},
			},
		},
		{
			name:      "interleave with remainder",
			titles:    []string{"A", "C", "E", "F"},
			locations: []string{"B", "D"},
			want: []Suggestion{
				{Value: "A", Origin: OriginTitle},
				{Value: "B", Origin: OriginLocation},
				{Value: "C", Origin: OriginTitle},
				{Value: "D", Origin: OriginLocation},
				{Value: "E", Origin: OriginTitle},
				{Value: "F", Origin: OriginTitle},
			},
		},
		{
			name:      "titles only",
			titles:    []string{"Vertigo"},
			locations: nil,
			want:      []Suggestion{{Value: "Vertigo", Origin: OriginTitle}},
		},
		{
			name:      "locations only",
			titles:    nil,
			locations: []string{"Coit Tower", "Fort Point"},
			want: []Suggestion{
				{Value: "Coit Tower", Origin: OriginLocation},
				{Value: "Fort Point", Origin: OriginLocation},
			},
		},
		{
			name: "both empty",
			want: []Suggestion{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Merge(tc.titles, tc.locations))
		})
	}
}

func TestMergeKeepsEverything(t *testing.T) {
	titles := []string{"a", "b", "b", "d"}
	locations := []string{"b", "c"}
	got := Merge(titles, locations)

	assert.Len(t, got, len(titles)+len(locations))
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i-1].Value, got[i].Value)
	}
}
