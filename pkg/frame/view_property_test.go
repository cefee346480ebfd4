package frame

import (
	"strconv"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestViewProperties(test *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("rendered card count is min(n, 4) and keeps order", prop.ForAll(
		func(count int) bool {
			names := make([]string, count)
			for index := range names {
				names[index] = "user-" + strconv.Itoa(index)
			}
			view := BuildView(NewIdentity("42"), joinedRecords(names...))
			want := count
			if want > MaxCards {
				want = MaxCards
			}
			if len(view.Cards) != want {
				return false
			}
			for index, card := range view.Cards {
				if card.Label != names[index] {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 32),
	))

	properties.Property("layout depends only on count thresholds", prop.ForAll(
		func(count int) bool {
			layout := SelectLayout(count)
			switch {
			case count <= 1:
				return layout == Layout{CardPadding: 40, Justify: JustifyCenter, Align: AlignCenter, ContainerPadding: 40}
			case count == 2:
				return layout == Layout{CardPadding: 20, Justify: JustifySpaceAround, Align: AlignFlexStart, ContainerPadding: 40}
			default:
				return layout == Layout{CardPadding: 10, Wrap: true, Justify: JustifySpaceAround, Align: AlignFlexStart, ContainerPadding: 25}
			}
		},
		gen.IntRange(0, MaxCards),
	))

	properties.Property("matched points are never empty", prop.ForAll(
		func(displayName string, candidateNames []string, candidatePoints string) bool {
			points := make([]PointsRecord, 0, len(candidateNames))
			for _, name := range candidateNames {
				points = append(points, PointsRecord{DisplayName: FlexString(name), Points: FlexString(candidatePoints)})
			}
			got := MatchPoints(AllowanceRecord{DisplayName: FlexString(displayName)}, points)
			return got != ""
		},
		gen.AlphaString(),
		gen.SliceOf(gen.AlphaString()),
		gen.AlphaString(),
	))

	properties.TestingRun(test)
}
