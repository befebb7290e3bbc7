package chord

import (
	"fmt"
	"sort"

	"github.com/jsphweid/scoreline/model"
)

// CreateChordKey joins sorted MIDI codes with "-", e.g. "60-64-67".
func CreateChordKey(codes []int) string {
	sorted := append([]int(nil), codes...)
	sort.Ints(sorted)
	var res string
	for i, code := range sorted {
		res += fmt.Sprintf("%v", code)
		if i < len(sorted)-1 {
			res += "-"
		}
	}
	return res
}

// Key is the chord key of a note's pitches. Rests and unpitched notes
// have an empty key.
func Key(n *model.Note) string {
	data := n.Data()
	if len(data) == 0 {
		return ""
	}
	codes := make([]int, 0, len(data))
	for _, p := range data {
		codes = append(codes, p.MidiCode)
	}
	return CreateChordKey(codes)
}

// Histogram counts how often each chord occurs. Only notes with the
// chord view are counted.
func Histogram(notes []*model.Note) map[string]int {
	res := make(map[string]int)
	for _, n := range notes {
		if n.View() != model.ViewChord {
			continue
		}
		res[Key(n)]++
	}
	return res
}

type Count struct {
	Key   string
	Count int
}

// MostCommon returns up to limit chords, most frequent first; ties are
// ordered by key.
func MostCommon(h map[string]int, limit int) []Count {
	res := make([]Count, 0, len(h))
	for k, v := range h {
		res = append(res, Count{Key: k, Count: v})
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].Count != res[j].Count {
			return res[i].Count > res[j].Count
		}
		return res[i].Key < res[j].Key
	})
	if limit > 0 && len(res) > limit {
		res = res[:limit]
	}
	return res
}
