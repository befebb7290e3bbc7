package chord

import (
	"testing"

	"github.com/jsphweid/scoreline/model"
	"github.com/stretchr/testify/assert"
)

func chordNote(codes ...int) *model.Note {
	var members []model.PitchData
	for _, c := range codes {
		members = append(members, model.PitchData{MidiCode: c})
	}
	return &model.Note{Body: model.Chord{Members: members}}
}

func TestCreateChordKeySorts(t *testing.T) {
	codes := []int{67, 60, 64}

	assert := assert.New(t)
	assert.Equal("60-64-67", CreateChordKey(codes))
	assert.Equal([]int{67, 60, 64}, codes)
}

func TestKeyOfRestIsEmpty(t *testing.T) {
	assert.Equal(t, "", Key(&model.Note{Body: model.Rest{}}))
}

func TestHistogramCountsOnlyChords(t *testing.T) {
	p := model.PitchData{MidiCode: 60}
	notes := []*model.Note{
		chordNote(60, 64, 67),
		chordNote(67, 64, 60),
		chordNote(60, 65, 69),
		{Body: model.Single{Pitch: &p}},
		{Body: model.Rest{}},
	}

	h := Histogram(notes)

	assert := assert.New(t)
	assert.Equal(map[string]int{"60-64-67": 2, "60-65-69": 1}, h)
	assert.Equal([]Count{{Key: "60-64-67", Count: 2}}, MostCommon(h, 1))
}

func TestMostCommonBreaksTiesByKey(t *testing.T) {
	h := map[string]int{"62-65": 1, "60-64": 1, "59-62": 3}

	assert.Equal(t, []Count{
		{Key: "59-62", Count: 3},
		{Key: "60-64", Count: 1},
		{Key: "62-65", Count: 1},
	}, MostCommon(h, 0))
}
