package location

import (
	"net/url"

	"github.com/courtside/courtside-ai-go/internal/models"
	"github.com/courtside/courtside-ai-go/internal/selection"
)

// Canonical shareable query parameters. Display filters and sort order are
// deliberately not persisted.
const (
	paramTeam        = "team"
	paramPlayer1     = "p1"
	paramPlayer2     = "p2"
	paramPlayer1Stat = "p1stat"
	paramPlayer2Stat = "p2stat"
	paramAnalyzed    = "analyzed"
)

// Params is the location-derived portion of a selection, before any entity
// lookup has validated it.
type Params struct {
	TeamID      string
	Player1ID   string
	Player2ID   string
	Player1Stat models.StatKind
	Player2Stat models.StatKind
	Analyzed    bool
}

// Encode serializes the non-empty selection fields into canonical query
// parameters.
func Encode(s selection.State) url.Values {
	values := url.Values{}
	if s.TeamID != "" {
		values.Set(paramTeam, s.TeamID)
	}
	if s.Player1 != nil {
		values.Set(paramPlayer1, s.Player1.ID)
		values.Set(paramPlayer1Stat, string(s.Player1.Stat))
	}
	if s.Player2 != nil {
		values.Set(paramPlayer2, s.Player2.ID)
		values.Set(paramPlayer2Stat, string(s.Player2.Stat))
	}
	if s.Analyzed {
		values.Set(paramAnalyzed, "true")
	}
	return values
}

// EncodeString renders the canonical query string.
func EncodeString(s selection.State) string {
	return Encode(s).Encode()
}

// Decode parses canonical query parameters into Params. Unknown stat kinds
// are dropped rather than failing: a shared link with a bad stat degrades to
// an unset player. The analyzed flag only honors the literal "true" string.
func Decode(values url.Values) Params {
	p := Params{
		TeamID:    values.Get(paramTeam),
		Player1ID: values.Get(paramPlayer1),
		Player2ID: values.Get(paramPlayer2),
		Analyzed:  values.Get(paramAnalyzed) == "true",
	}
	if kind, err := models.ParseStatKind(values.Get(paramPlayer1Stat)); err == nil {
		p.Player1Stat = kind
	}
	if kind, err := models.ParseStatKind(values.Get(paramPlayer2Stat)); err == nil {
		p.Player2Stat = kind
	}
	return p
}

// DecodeString parses a raw query string. Malformed input decodes to empty
// Params.
func DecodeString(raw string) Params {
	values, err := url.ParseQuery(raw)
	if err != nil {
		return Params{}
	}
	return Decode(values)
}
