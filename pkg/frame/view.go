package frame

import "strconv"

// Flexbox keywords used by Layout.
const (
	JustifyCenter      = "center"
	JustifySpaceAround = "space-around"
	AlignCenter        = "center"
	AlignFlexStart     = "flex-start"
	WrapEnabled        = "wrap"
	WrapDisabled       = "nowrap"
)

// Layout describes container and card spacing for a card count.
type Layout struct {
	CardPadding      int
	Wrap             bool
	Justify          string
	Align            string
	ContainerPadding int
}

// FlexWrap returns the CSS flex-wrap keyword.
func (layout Layout) FlexWrap() string {
	if layout.Wrap {
		return WrapEnabled
	}
	return WrapDisabled
}

// Card is the display-ready form of a joined record.
type Card struct {
	Key                string
	AvatarURL          string
	Label              string
	Rank               string
	Points             string
	TipAllowance       string
	RemainingAllowance string
}

// View is the visual tree handed to the image renderer.
type View struct {
	Intro  bool
	Layout Layout
	Cards  []Card
}

// IntroView is rendered when a request carries no action.
func IntroView() View {
	return View{Intro: true, Layout: SelectLayout(1)}
}

// SelectLayout picks spacing purely from the number of cards shown.
func SelectLayout(count int) Layout {
	layout := Layout{
		CardPadding:      40,
		Wrap:             count > 2,
		Justify:          JustifyCenter,
		Align:            AlignCenter,
		ContainerPadding: 40,
	}
	switch {
	case count > 2:
		layout.CardPadding = 10
	case count > 1:
		layout.CardPadding = 20
	}
	if count > 1 {
		layout.Justify = JustifySpaceAround
		layout.Align = AlignFlexStart
	}
	if count > 2 {
		layout.ContainerPadding = 25
	}
	return layout
}

// Truncate keeps the first limit records in their original order.
func Truncate(records []JoinedRecord, limit int) []JoinedRecord {
	if limit < 0 {
		limit = 0
	}
	if len(records) <= limit {
		return records
	}
	return records[:limit]
}

// BuildView maps joined records to cards without mutating them.
func BuildView(identity Identity, records []JoinedRecord) View {
	shown := Truncate(records, MaxCards)
	cards := make([]Card, 0, len(shown))
	for index, record := range shown {
		cards = append(cards, newCard(index, identity, record))
	}
	return View{Layout: SelectLayout(len(cards)), Cards: cards}
}

func newCard(index int, identity Identity, record JoinedRecord) Card {
	key := record.DisplayName.String()
	if key == "" {
		key = strconv.Itoa(index)
	}
	label := record.DisplayName.String()
	if label == "" {
		label = identity.FallbackLabel()
	}
	rank := record.UserRank.String()
	if rank == "" {
		rank = missingRankLabel
	}
	points := record.Points
	if points == "" {
		points = UnknownPoints
	}
	return Card{
		Key:                key,
		AvatarURL:          record.AvatarURL.String(),
		Label:              label,
		Rank:               rank,
		Points:             points,
		TipAllowance:       record.TipAllowance.String(),
		RemainingAllowance: record.RemainingAllowance.String(),
	}
}
