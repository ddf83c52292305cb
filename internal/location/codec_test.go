package location

import (
	"net/url"
	"testing"

	"github.com/courtside/courtside-ai-go/internal/models"
	"github.com/courtside/courtside-ai-go/internal/selection"
	"github.com/stretchr/testify/assert"
)

func TestEncodeEmptyState(t *testing.T) {
	values := Encode(selection.State{Season: "2025"})
	assert.Empty(t, values.Encode())
}

func TestEncodeFullSelection(t *testing.T) {
	state := selection.State{
		TeamID:   "lakers",
		Player1:  &selection.PlayerSelection{ID: "lebron", Stat: models.StatPoints},
		Player2:  &selection.PlayerSelection{ID: "davis", Stat: models.StatRebounds},
		Analyzed: true,
	}

	values := Encode(state)

	assert.Equal(t, "lakers", values.Get("team"))
	assert.Equal(t, "lebron", values.Get("p1"))
	assert.Equal(t, "points", values.Get("p1stat"))
	assert.Equal(t, "davis", values.Get("p2"))
	assert.Equal(t, "rebounds", values.Get("p2stat"))
	assert.Equal(t, "true", values.Get("analyzed"))
}

func TestEncodeOmitsDisplayFilter(t *testing.T) {
	state := selection.State{
		TeamID:   "lakers",
		HomeAway: models.FilterHome,
	}

	values := Encode(state)

	// Display filters are not part of the shareable location.
	assert.Equal(t, "team=lakers", values.Encode())
}

func TestRoundTrip(t *testing.T) {
	state := selection.State{
		TeamID:   "lakers",
		Player1:  &selection.PlayerSelection{ID: "lebron", Stat: models.StatAssists},
		Player2:  &selection.PlayerSelection{ID: "davis", Stat: models.StatBlocks},
		Analyzed: true,
	}

	params := DecodeString(EncodeString(state))

	assert.Equal(t, "lakers", params.TeamID)
	assert.Equal(t, "lebron", params.Player1ID)
	assert.Equal(t, models.StatAssists, params.Player1Stat)
	assert.Equal(t, "davis", params.Player2ID)
	assert.Equal(t, models.StatBlocks, params.Player2Stat)
	assert.True(t, params.Analyzed)
}

func TestDecodeDropsInvalidStat(t *testing.T) {
	params := Decode(url.Values{
		"team":   {"lakers"},
		"p1":     {"lebron"},
		"p1stat": {"dunks"},
	})

	assert.Equal(t, "lebron", params.Player1ID)
	assert.False(t, params.Player1Stat.Valid())
}

func TestDecodeAnalyzedLiteralTrueOnly(t *testing.T) {
	for raw, want := range map[string]bool{
		"true":  true,
		"TRUE":  false,
		"1":     false,
		"yes":   false,
		"false": false,
		"":      false,
	} {
		params := Decode(url.Values{"analyzed": {raw}})
		assert.Equal(t, want, params.Analyzed, "analyzed=%q", raw)
	}
}

func TestDecodeStringMalformed(t *testing.T) {
	params := DecodeString("%zz=bad")
	assert.Equal(t, Params{}, params)
}
