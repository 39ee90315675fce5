package suggest

// Origin tags which index a suggestion came from. The values are the wire
// codes clients already understand.
type Origin string

const (
	OriginTitle    Origin = "ts"
	OriginLocation Origin = "ls"
)

// Suggestion is one entry of a merged result.
type Suggestion struct {
	Value  string `json:"value" msgpack:"value"`
	Origin Origin `json:"data" msgpack:"data"`
}

// Merge interleaves two sorted lists into one, tagging each entry with its
// origin. On equal strings the location goes first.
func Merge(titles, locations []string) []Suggestion {
	out := make([]Suggestion, 0, len(titles)+len(locations))
	i, j := 0, 0
	for i < len(titles) && j < len(locations) {
		if titles[i] < locations[j] {
			out = append(out, Suggestion{Value: titles[i], Origin: OriginTitle})
			i++
			continue
		}
		out = append(out, Suggestion{Value: locations[j], Origin: OriginLocation})
		j++
	}
	for ; j < len(locations); j++ {
		out = append(out, Suggestion{Value: locations[j], Origin: OriginLocation})
	}
	for ; i < len(titles); i++ {
		out = append(out, Suggestion{Value: titles[i], Origin: OriginTitle})
	}
	return out
}
