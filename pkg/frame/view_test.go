package frame

import (
	"strconv"
	"testing"
)

func TestSelectLayout(test *testing.T) {
	test.Parallel()
	testCases := []struct {
		count int
		want  Layout
	}{
		{count: 0, want: Layout{CardPadding: 40, Wrap: false, Justify: JustifyCenter, Align: AlignCenter, ContainerPadding: 40}},
		{count: 1, want: Layout{CardPadding: 40, Wrap: false, Justify: JustifyCenter, Align: AlignCenter, ContainerPadding: 40}},
		{count: 2, want: Layout{CardPadding: 20, Wrap: false, Justify: JustifySpaceAround, Align: AlignFlexStart, ContainerPadding: 40}},
		{count: 3, want: Layout{CardPadding: 10, Wrap: true, Justify: JustifySpaceAround, Align: AlignFlexStart, ContainerPadding: 25}},
		{count: 4, want: Layout{CardPadding: 10, Wrap: true, Justify: JustifySpaceAround, Align: AlignFlexStart, ContainerPadding: 25}},
	}
	for _, testCase := range testCases {
		testCase := testCase
		test.Run(strconv.Itoa(testCase.count), func(test *testing.T) {
			test.Parallel()
			if got := SelectLayout(testCase.count); got != testCase.want {
				test.Fatalf("expected %+v, got %+v", testCase.want, got)
			}
		})
	}
}

func TestLayoutFlexWrap(test *testing.T) {
	test.Parallel()
	if SelectLayout(2).FlexWrap() != WrapDisabled {
		test.Fatalf("expected nowrap for two cards")
	}
	if SelectLayout(3).FlexWrap() != WrapEnabled {
		test.Fatalf("expected wrap for three cards")
	}
}

func TestTruncatePreservesOrder(test *testing.T) {
	test.Parallel()
	records := joinedRecords("a", "b", "c", "d", "e", "f")
	got := Truncate(records, MaxCards)
	if len(got) != MaxCards {
		test.Fatalf("expected %d records, got %d", MaxCards, len(got))
	}
	for index, name := range []string{"a", "b", "c", "d"} {
		if got[index].DisplayName.String() != name {
			test.Fatalf("record %d: expected %q, got %q", index, name, got[index].DisplayName)
		}
	}
	if len(Truncate(records[:2], MaxCards)) != 2 {
		test.Fatalf("expected short lists to pass through")
	}
}

func TestBuildViewFallbacks(test *testing.T) {
	test.Parallel()
	identity := NewIdentity("0x1234567890abcdef1234567890abcdef12345678")
	records := []JoinedRecord{
		{
			AllowanceRecord: AllowanceRecord{
				DisplayName:        "alice",
				AvatarURL:          "https://example.com/alice.png",
				UserRank:           "7",
				TipAllowance:       "500",
				RemainingAllowance: "120",
			},
			Points: "9000",
		},
		{
			AllowanceRecord: AllowanceRecord{TipAllowance: "10", RemainingAllowance: "0"},
		},
	}
	view := BuildView(identity, records)
	if view.Intro {
		test.Fatalf("expected data view")
	}
	if len(view.Cards) != 2 {
		test.Fatalf("expected two cards, got %d", len(view.Cards))
	}
	first := view.Cards[0]
	if first.Key != "alice" || first.Label != "alice" || first.Rank != "7" || first.Points != "9000" || first.AvatarURL == "" {
		test.Fatalf("unexpected first card: %+v", first)
	}
	second := view.Cards[1]
	if second.Key != "1" || second.Label != "0x1234...345678" || second.Rank != "N/A" || second.Points != UnknownPoints || second.AvatarURL != "" {
		test.Fatalf("unexpected second card: %+v", second)
	}
	if view.Layout != SelectLayout(2) {
		test.Fatalf("expected two-card layout, got %+v", view.Layout)
	}
	if records[1].Points != "" {
		test.Fatalf("BuildView must not mutate its input")
	}
}

func TestBuildViewFidLabel(test *testing.T) {
	test.Parallel()
	view := BuildView(NewIdentity("3621"), []JoinedRecord{{Points: "1"}})
	if view.Cards[0].Label != "Fid: 3621" {
		test.Fatalf("expected fid label, got %q", view.Cards[0].Label)
	}
}

func TestBuildViewEmpty(test *testing.T) {
	test.Parallel()
	view := BuildView(NewIdentity("1"), nil)
	if len(view.Cards) != 0 {
		test.Fatalf("expected no cards, got %d", len(view.Cards))
	}
	if view.Intro {
		test.Fatalf("empty result is not the intro view")
	}
}

func joinedRecords(names ...string) []JoinedRecord {
	records := make([]JoinedRecord, 0, len(names))
	for _, name := range names {
		records = append(records, JoinedRecord{
			AllowanceRecord: AllowanceRecord{DisplayName: FlexString(name)},
			Points:          UnknownPoints,
		})
	}
	return records
}
