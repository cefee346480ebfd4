package render

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// Frame controls shown under the card.
const (
	CheckButtonLabel = "Check $DEGEN"
	LinkButtonLabel  = "degen.tips"
	LinkButtonTarget = "https://www.degen.tips/airdrop2"
	InputPlaceholder = "Optional Wallet or FID"

	frameVersion     = "vNext"
	buttonActionLink = "link"
	pageTitle        = "$DEGEN allowance"
)

// Button is one fc:frame button.
type Button struct {
	Label string
	// Action is empty for a plain post button.
	Action string
	Target string
}

// Page holds everything emitted into the frame HTML document.
type Page struct {
	ImageURL    string
	AspectRatio string
	PostURL     string
	State       string
	InputText   string
	Buttons     []Button
	DebugURL    string
}

// DefaultButtons returns the submit and external-link buttons of the allowance frame.
func DefaultButtons() []Button {
	return []Button{
		{Label: CheckButtonLabel},
		{Label: LinkButtonLabel, Action: buttonActionLink, Target: LinkButtonTarget},
	}
}

// FramePage renders the HTML document carrying fc:frame meta tags.
func FramePage(page Page) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"/>`)
		fmt.Fprintf(&b, `<title>%s</title>`, escape(pageTitle))
		writeMeta(&b, "og:title", pageTitle)
		writeMeta(&b, "og:image", page.ImageURL)
		writeMeta(&b, "fc:frame", frameVersion)
		writeMeta(&b, "fc:frame:image", page.ImageURL)
		aspectRatio := page.AspectRatio
		if aspectRatio == "" {
			aspectRatio = ImageAspectRatio
		}
		writeMeta(&b, "fc:frame:image:aspect_ratio", aspectRatio)
		writeMeta(&b, "fc:frame:post_url", page.PostURL)
		if page.State != "" {
			writeMeta(&b, "fc:frame:state", page.State)
		}
		if page.InputText != "" {
			writeMeta(&b, "fc:frame:input:text", page.InputText)
		}
		for index, button := range page.Buttons {
			prefix := fmt.Sprintf("fc:frame:button:%d", index+1)
			writeMeta(&b, prefix, button.Label)
			if button.Action != "" {
				writeMeta(&b, prefix+":action", button.Action)
			}
			if button.Target != "" {
				writeMeta(&b, prefix+":target", button.Target)
			}
		}
		b.WriteString(`</head><body><div class="p-4">`)
		b.WriteString(`frames starter kit. The Template Frame is on this page, it&#39;s in the html meta tags (inspect source). `)
		if page.DebugURL != "" {
			fmt.Fprintf(&b, `<a href="%s" class="underline">Debug</a>`, escape(page.DebugURL))
		}
		fmt.Fprintf(&b, `<div><img src="%s" alt="%s" width="%d" height="%d"/></div>`, escape(page.ImageURL), escape(pageTitle), ImageWidth, ImageHeight)
		b.WriteString(`</div></body></html>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func writeMeta(b *strings.Builder, property string, content string) {
	fmt.Fprintf(b, `<meta property="%s" content="%s"/>`, escape(property), escape(content))
}
