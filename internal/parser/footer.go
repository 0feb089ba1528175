package parser

import (
	"regexp"

	"github.com/hazel/mudae-tracker-go/internal/domain"
)

// The footer line carries ownership and pagination, both optional:
//
//	Belongs to Alice ~~ 2 / 5 [1]
//	Belongs to Alice
//	2 / 5
//
// The bracketed number counts extra images added on top of the stock set;
// Mudae prints it only when non-default, so a matched pagination group
// without it means zero, while no pagination at all leaves the counters
// absent.
var footerPattern = regexp.MustCompile(
	`(?s)^(?:Belongs to (?P<owner>.+?))?` +
		`(?: ~~ )?` +
		`(?:(?P<index>\d+) / (?P<count>\d+)(?: \[(?P<extra>\d+)\])?)?$`,
)

var (
	footerOwnerIdx = footerPattern.SubexpIndex("owner")
	footerIndexIdx = footerPattern.SubexpIndex("index")
	footerCountIdx = footerPattern.SubexpIndex("count")
	footerExtraIdx = footerPattern.SubexpIndex("extra")
)

// parseFooter fills ownership and pagination from the footer text. It is
// independent of the body shape; a footer that matches nothing leaves the
// record unclaimed with the counters absent.
func parseFooter(text string, waifu *domain.Waifu) {
	if text == "" {
		return
	}

	match := footerPattern.FindStringSubmatch(text)
	if match == nil {
		return
	}

	if owner := match[footerOwnerIdx]; owner != "" {
		waifu.IsClaimed = true
		waifu.OwnerName = owner
	}

	waifu.ImageIndex = parseInt(match[footerIndexIdx])
	waifu.ImageCount = parseInt(match[footerCountIdx])
	if waifu.ImageIndex != nil && waifu.ImageCount != nil {
		extra := 0
		if v := parseInt(match[footerExtraIdx]); v != nil {
			extra = *v
		}
		waifu.ImageExtra = &extra
	}
}
