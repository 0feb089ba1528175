package parser

import (
	"regexp"

	"github.com/hazel/mudae-tracker-go/internal/domain"
	"github.com/hazel/mudae-tracker-go/internal/util"
)

// Roll announcements look like:
//
//	Series Name
//	**1234**<:kakera:469835869059153940>
//
// The series is the full first line (no embedded markup), and the decorated
// kakera token sits at the end of its own line. Both are required. Info
// cards with a wrapped series can start the same way, so the labeled rank
// lines they always carry rule the roll shape out entirely.
var (
	rollSeriesPattern    = regexp.MustCompile(`^(?P<series>[^<\n]+)\n`)
	rollKakeraPattern    = regexp.MustCompile(`\*\*(?P<value>\d+)\*\*<[^>\n]*>(?:\n|$)`)
	rollRankLabelPattern = regexp.MustCompile(`(?m)^(?:Claims|Likes): #\d+`)
)

type rollShape struct{}

func (rollShape) kind() domain.Kind {
	return domain.KindRoll
}

func (rollShape) extract(desc string) (*fields, bool) {
	if rollRankLabelPattern.MatchString(desc) {
		return nil, false
	}

	series := rollSeriesPattern.FindStringSubmatch(desc)
	if series == nil {
		return nil, false
	}

	kakera := rollKakeraPattern.FindStringSubmatch(desc)
	if kakera == nil {
		return nil, false
	}
	value := parseInt(kakera[1])
	if value == nil {
		return nil, false
	}

	normalized := util.CollapseWhitespace(series[1])
	if normalized == "" {
		return nil, false
	}

	return &fields{
		series: normalized,
		kakera: value,
	}, true
}
