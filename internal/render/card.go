// Package render turns frame views into the card image and the frame HTML page.
package render

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/MarkoPoloResearchLab/degenframe/pkg/frame"
	"github.com/a-h/templ"
)

// Card image geometry; 1146x600 is the 1.91:1 frame aspect ratio.
const (
	ImageWidth       = 1146
	ImageHeight      = 600
	ImageAspectRatio = "1.91:1"

	svgDataURIPrefix = "data:image/svg+xml;base64,"

	colorBackground = "#334155"
	colorCard       = "#ffffff"
	colorChip       = "#e2e8f0"
	colorChipBorder = "#94a3b8"
	cardShadow      = "0 4px 6px -1px rgba(0,0,0,0.1), 0 2px 4px -2px rgba(0,0,0,0.1)"
	fontFamily      = "Inter, Helvetica, Arial, sans-serif"
	avatarSize      = 100
)

// CardImage renders the view as a standalone SVG document.
func CardImage(view frame.View) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`, ImageWidth, ImageHeight, ImageWidth, ImageHeight)
		fmt.Fprintf(&b, `<foreignObject x="0" y="0" width="%d" height="%d">`, ImageWidth, ImageHeight)
		if view.Intro {
			writeIntro(&b)
		} else {
			writeCards(&b, view)
		}
		b.WriteString(`</foreignObject></svg>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// ImageDataURI renders the view and returns it as an SVG data URI usable in fc:frame:image.
func ImageDataURI(ctx context.Context, view frame.View) (string, error) {
	var buffer bytes.Buffer
	if err := CardImage(view).Render(ctx, &buffer); err != nil {
		return "", fmt.Errorf("render card image: %w", err)
	}
	return svgDataURIPrefix + base64.StdEncoding.EncodeToString(buffer.Bytes()), nil
}

func writeIntro(b *strings.Builder) {
	fmt.Fprintf(b, `<div xmlns="http://www.w3.org/1999/xhtml" style="%s">`, style(
		"display", "flex",
		"align-items", "center",
		"justify-content", "center",
		"width", "100%",
		"height", "100%",
		"background", colorBackground,
		"color", "#000000",
		"font-family", fontFamily,
	))
	fmt.Fprintf(b, `<div style="%s">`, style(
		"display", "flex",
		"justify-content", "flex-start",
		"align-items", "center",
		"flex-wrap", "wrap",
		"background", colorCard,
		"border-radius", "8px",
		"box-shadow", cardShadow,
		"max-width", "672px",
		"padding", "48px",
		"font-size", "48px",
	))
	b.WriteString(`<span>Click</span>`)
	fmt.Fprintf(b, `<span style="%s">%s</span> `, style(
		"padding", "8px",
		"background", colorChip,
		"border-radius", "8px",
		"margin-left", "8px",
		"font-weight", "700",
		"border", "2px solid "+colorChipBorder,
	), escape(CheckButtonLabel))
	fmt.Fprintf(b, `<span>%s</span>`, escape("below to see your $DEGEN stats. Enter a wallet or fid to check someone else's stats."))
	b.WriteString(`</div></div>`)
}

func writeCards(b *strings.Builder, view frame.View) {
	layout := view.Layout
	fmt.Fprintf(b, `<div xmlns="http://www.w3.org/1999/xhtml" style="%s">`, style(
		"display", "flex",
		"flex-direction", "row",
		"flex-wrap", layout.FlexWrap(),
		"justify-content", layout.Justify,
		"align-items", layout.Align,
		"box-sizing", "border-box",
		"width", "100%",
		"height", "100%",
		"padding", px(layout.ContainerPadding),
		"background", colorBackground,
		"color", "#000000",
		"font-family", fontFamily,
	))
	cardStyle := style(
		"display", "flex",
		"flex-direction", "column",
		"background", colorCard,
		"border-radius", "8px",
		"box-shadow", cardShadow,
		"margin-bottom", "16px",
		"padding", px(layout.CardPadding),
	)
	for _, card := range view.Cards {
		writeCard(b, card, cardStyle)
	}
	b.WriteString(`</div>`)
}

func writeCard(b *strings.Builder, card frame.Card, cardStyle string) {
	fmt.Fprintf(b, `<div style="%s" data-key="%s">`, cardStyle, escape(card.Key))
	fmt.Fprintf(b, `<div style="%s">`, style("display", "flex", "font-size", "60px", "align-items", "flex-start"))
	if card.AvatarURL != "" {
		fmt.Fprintf(b, `<img src="%s" width="%d" height="%d" style="%s"/>`, escape(card.AvatarURL), avatarSize, avatarSize, style(
			"width", px(avatarSize),
			"height", px(avatarSize),
			"border-radius", "50%",
			"margin-right", "20px",
		))
	}
	fmt.Fprintf(b, `<div style="%s">`, style("display", "flex", "flex-direction", "column", "font-size", "36px"))
	fmt.Fprintf(b, `<span>%s</span>`, escape(card.Label))
	fmt.Fprintf(b, `<span>Rank %s</span>`, escape(card.Rank))
	b.WriteString(`</div></div>`)
	lineStyle := style("display", "flex", "flex-wrap", "wrap")
	fmt.Fprintf(b, `<span style="%s">Points - %s</span>`, lineStyle, escape(card.Points))
	fmt.Fprintf(b, `<span style="%s">Allowance - %s $DEGEN</span>`, lineStyle, escape(card.TipAllowance))
	fmt.Fprintf(b, `<span style="%s">Remaining - %s $DEGEN</span>`, lineStyle, escape(card.RemainingAllowance))
	b.WriteString(`</div>`)
}

// escape drops runes that are not XML 1.0 characters and HTML-escapes the rest.
func escape(value string) string {
	return templ.EscapeString(strings.Map(xmlRune, value))
}

func xmlRune(r rune) rune {
	switch {
	case r == '\t', r == '\n', r == '\r':
		return r
	case r < 0x20, r == 0xFFFE, r == 0xFFFF, r >= 0xD800 && r <= 0xDFFF:
		return -1
	}
	return r
}

// style joins property/value pairs into an escaped inline style attribute value.
func style(pairs ...string) string {
	declarations := make([]string, 0, len(pairs)/2)
	for index := 0; index+1 < len(pairs); index += 2 {
		declarations = append(declarations, pairs[index]+":"+pairs[index+1])
	}
	return escape(strings.Join(declarations, ";"))
}

func px(value int) string {
	return fmt.Sprintf("%dpx", value)
}
