package notion

import (
	"strings"

	"github.com/jomei/notionapi"
)

func titleProp(s string) *notionapi.TitleProperty {
	return &notionapi.TitleProperty{Title: []notionapi.RichText{{Text: &notionapi.Text{Content: s}}}}
}

func textProp(s string) *notionapi.RichTextProperty {
	return &notionapi.RichTextProperty{RichText: []notionapi.RichText{{Text: &notionapi.Text{Content: s}}}}
}

func selectProp(name string) *notionapi.SelectProperty {
	return &notionapi.SelectProperty{Select: notionapi.Option{Name: name}}
}

func numberProp(n float64) *notionapi.NumberProperty {
	return &notionapi.NumberProperty{Number: n}
}

func relationProp(ids ...string) *notionapi.RelationProperty {
	rel := make([]notionapi.Relation, len(ids))
	for i, id := range ids {
		rel[i] = notionapi.Relation{ID: notionapi.PageID(id)}
	}
	return &notionapi.RelationProperty{Relation: rel}
}

// plainText concatenates the text of a title or rich text property.
func plainText(p notionapi.Property) string {
	var frags []notionapi.RichText
	switch v := p.(type) {
	case *notionapi.TitleProperty:
		frags = v.Title
	case *notionapi.RichTextProperty:
		frags = v.RichText
	}
	var b strings.Builder
	for _, f := range frags {
		switch {
		case f.PlainText != "":
			b.WriteString(f.PlainText)
		case f.Text != nil:
			b.WriteString(f.Text.Content)
		}
	}
	return b.String()
}

// selectName returns the selected option name, or "" when unset.
func selectName(p notionapi.Property) string {
	if v, ok := p.(*notionapi.SelectProperty); ok {
		return v.Select.Name
	}
	return ""
}

// numberValue returns the number, or 0 when unset.
func numberValue(p notionapi.Property) float64 {
	if v, ok := p.(*notionapi.NumberProperty); ok {
		return v.Number
	}
	return 0
}

// sameID compares Notion ids with or without hyphens.
func sameID(a, b string) bool {
	return strings.EqualFold(strings.ReplaceAll(a, "-", ""), strings.ReplaceAll(b, "-", ""))
}
