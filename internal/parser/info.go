package parser

import (
	"regexp"

	"github.com/hazel/mudae-tracker-go/internal/constants"
	"github.com/hazel/mudae-tracker-go/internal/domain"
	"github.com/hazel/mudae-tracker-go/internal/util"
)

// Info cards pack everything into one body:
//
//	Series Name <:female:452463537508450304>
//	**410**<:kakera:469835869059153940> (2)
//	Claims: #102
//	Likes: #348
//
// Series text runs up to the gender marker emoji, the key level is an
// optional bracketed number between the kakera token and the claim rank,
// and both ranks are labeled lines. Everything except gender and key must
// match together or the whole attempt fails.
var infoPattern = regexp.MustCompile(
	`(?s)^(?P<series>.*?) <:(?P<gender>[^:]+):\d+>` +
		`.*?\*\*(?P<kakera>\d+)` +
		`[^(]*(?:\((?P<key>\d+)\))?` +
		`.*Claims: #(?P<claims>\d+)` +
		`.*?Likes: #(?P<likes>\d+)`,
)

var (
	infoSeriesIdx = infoPattern.SubexpIndex("series")
	infoGenderIdx = infoPattern.SubexpIndex("gender")
	infoKakeraIdx = infoPattern.SubexpIndex("kakera")
	infoKeyIdx    = infoPattern.SubexpIndex("key")
	infoClaimsIdx = infoPattern.SubexpIndex("claims")
	infoLikesIdx  = infoPattern.SubexpIndex("likes")
)

type infoShape struct{}

func (infoShape) kind() domain.Kind {
	return domain.KindInfo
}

func (infoShape) extract(desc string) (*fields, bool) {
	match := infoPattern.FindStringSubmatch(desc)
	if match == nil {
		return nil, false
	}

	series := util.CollapseWhitespace(match[infoSeriesIdx])
	kakera := parseInt(match[infoKakeraIdx])
	claims := parseInt(match[infoClaimsIdx])
	likes := parseInt(match[infoLikesIdx])
	if series == "" || kakera == nil || claims == nil || likes == nil {
		return nil, false
	}

	// An unmatched key level means level zero, not absence.
	key := parseInt(match[infoKeyIdx])
	if key == nil {
		zero := 0
		key = &zero
	}

	return &fields{
		series:    series,
		kakera:    kakera,
		key:       key,
		gender:    parseGender(match[infoGenderIdx]),
		claimRank: claims,
		likeRank:  likes,
	}, true
}

// parseGender matches the two known marker tokens; anything else stays
// unset rather than guessing.
func parseGender(token string) domain.Gender {
	switch token {
	case constants.Markers.FemaleToken:
		return domain.GenderFemale
	case constants.Markers.MaleToken:
		return domain.GenderMale
	default:
		return domain.GenderUnknown
	}
}
