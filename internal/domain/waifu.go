package domain

// Kind tells which of the two Mudae message shapes produced a record.
// Rolls come from $w-style commands, infos from $im.
type Kind string

const (
	KindRoll Kind = "roll"
	KindInfo Kind = "info"
)

func (k Kind) String() string {
	return string(k)
}

// Gender is inferred from the marker emoji next to the series line in info
// messages. Anything but the two known tokens leaves it unset.
type Gender string

const (
	GenderUnknown Gender = ""
	GenderFemale  Gender = "female"
	GenderMale    Gender = "male"
)

// MessageRef locates the message a record was built from, so the history
// resolver and claim awaiter can find its neighbours.
type MessageRef struct {
	ChannelID string
	MessageID string
}

// Waifu is one character instance extracted from a Mudae embed.
//
// Optional numeric fields are pointers: nil means the source message did not
// carry the field. Key is the exception: Mudae omits the bracket entirely for
// keyless characters, so the parser fills in level 0 instead of leaving nil.
type Waifu struct {
	Name   string
	Series string
	Kind   Kind

	Kakera    *int
	Key       *int
	Gender    Gender
	ClaimRank *int
	LikeRank  *int

	ImageURL   string
	ImageIndex *int
	ImageCount *int
	ImageExtra *int

	// OwnerName is the raw display name from the footer; OwnerID is filled
	// once it has been resolved against the guild roster.
	IsClaimed bool
	OwnerName string
	OwnerID   string

	// Creator and Suitors stay empty until a fetch-extra scan runs.
	Creator string
	Suitors []string

	Source MessageRef
}

func (w *Waifu) String() string {
	return w.Name
}

// Claim records the resolved owner. It only ever moves the record from
// unclaimed to claimed; a second claim is ignored.
func (w *Waifu) Claim(ownerID, ownerName string) {
	if w.IsClaimed {
		return
	}
	w.IsClaimed = true
	w.OwnerID = ownerID
	w.OwnerName = ownerName
}
