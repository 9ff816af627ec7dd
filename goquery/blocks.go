package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/postarch/postarch"
)

// Compile-time interface verification.
var _ postarch.BlockParser = (*BlockParser)(nil)

// BlockParser turns extracted content HTML into the ordered block
// sequence of the intermediate representation. Headings keep their
// level, paragraphs keep inline markup, images become their own blocks,
// and anything else (lists, quotes, code, tables) passes through as raw
// markup.
type BlockParser struct{}

// NewBlockParser creates a new BlockParser.
func NewBlockParser() *BlockParser {
	return &BlockParser{}
}

// Parse preserves reading order end to end: blocks appear in the slice
// exactly as their elements appear in the document.
func (p *BlockParser) Parse(contentHTML string) ([]postarch.Block, error) {
	if strings.TrimSpace(contentHTML) == "" {
		return nil, postarch.Errorf(postarch.EEXTRACT, "empty content")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(contentHTML))
	if err != nil {
		return nil, postarch.Errorf(postarch.EINVALID, "failed to parse content HTML: %v", err)
	}

	var blocks []postarch.Block
	doc.Find("body").Children().Each(func(_ int, sel *goquery.Selection) {
		walk(sel, &blocks)
	})

	return blocks, nil
}

func walk(sel *goquery.Selection, blocks *[]postarch.Block) {
	switch name := goquery.NodeName(sel); name {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		inner, _ := sel.Html()
		*blocks = append(*blocks, postarch.Block{
			Kind:  postarch.BlockHeading,
			Level: int(name[1] - '0'),
			Text:  strings.TrimSpace(sel.Text()),
			HTML:  strings.TrimSpace(inner),
		})

	case "p":
		walkParagraph(sel, blocks)

	case "img":
		appendImage(sel, blocks)

	case "figure", "picture":
		sel.Find("img").Each(func(_ int, img *goquery.Selection) {
			appendImage(img, blocks)
		})
		if caption := strings.TrimSpace(sel.Find("figcaption").Text()); caption != "" {
			*blocks = append(*blocks, postarch.Block{
				Kind: postarch.BlockParagraph,
				Text: caption,
				HTML: caption,
			})
		}

	case "div", "section", "article", "main", "header":
		// Wrapper elements: descend, keeping child order.
		sel.Children().Each(func(_ int, child *goquery.Selection) {
			walk(child, blocks)
		})

	case "br", "hr", "#comment", "script", "style", "button", "form":
		// No content of their own.

	default:
		// Lists, blockquotes, code blocks, tables and embeds pass
		// through as raw markup so format renderers can decide.
		outer, err := goquery.OuterHtml(sel)
		if err != nil || strings.TrimSpace(sel.Text()) == "" && sel.Find("img").Length() == 0 {
			return
		}
		*blocks = append(*blocks, postarch.Block{
			Kind: postarch.BlockOther,
			Text: strings.TrimSpace(sel.Text()),
			HTML: strings.TrimSpace(outer),
		})
	}
}

// walkParagraph splits a paragraph around any embedded images so the
// image blocks land at their in-document position.
func walkParagraph(sel *goquery.Selection, blocks *[]postarch.Block) {
	if sel.Find("img").Length() == 0 {
		appendParagraph(sel.Text(), sel, blocks)
		return
	}

	var runHTML strings.Builder
	var runText strings.Builder

	flush := func() {
		if strings.TrimSpace(runText.String()) == "" {
			runHTML.Reset()
			runText.Reset()
			return
		}
		*blocks = append(*blocks, postarch.Block{
			Kind: postarch.BlockParagraph,
			Text: strings.TrimSpace(runText.String()),
			HTML: strings.TrimSpace(runHTML.String()),
		})
		runHTML.Reset()
		runText.Reset()
	}

	sel.Contents().Each(func(_ int, child *goquery.Selection) {
		if goquery.NodeName(child) == "img" {
			flush()
			appendImage(child, blocks)
			return
		}
		if child.Find("img").Length() > 0 {
			// An inline wrapper (e.g. a link) around an image.
			flush()
			child.Find("img").Each(func(_ int, img *goquery.Selection) {
				appendImage(img, blocks)
			})
			return
		}
		outer, err := goquery.OuterHtml(child)
		if err != nil {
			return
		}
		runHTML.WriteString(outer)
		runText.WriteString(child.Text())
	})
	flush()
}

func appendParagraph(text string, sel *goquery.Selection, blocks *[]postarch.Block) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	inner, _ := sel.Html()
	*blocks = append(*blocks, postarch.Block{
		Kind: postarch.BlockParagraph,
		Text: text,
		HTML: strings.TrimSpace(inner),
	})
}

func appendImage(sel *goquery.Selection, blocks *[]postarch.Block) {
	src := strings.TrimSpace(sel.AttrOr("src", ""))
	if src == "" {
		return
	}
	*blocks = append(*blocks, postarch.Block{
		Kind:     postarch.BlockImage,
		ImageURL: src,
		Alt:      strings.TrimSpace(sel.AttrOr("alt", "")),
	})
}
