// Package records renders strings scraped from a page.
package records

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"html"
	"strconv"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

// Kind says what each item holds.
type Kind string

const (
	KindText Kind = "text" // rendered innerText
	KindHTML Kind = "html" // outerHTML
)

// Content holds the items scraped for one selector. It has no reference to
// the browser, so it can be formatted after the browser is closed.
type Content struct {
	Selector string
	URL      string
	Kind     Kind
	Items    []string
}

// New creates Content. A nil items slice is stored as empty.
func New(selector, url string, kind Kind, items []string) *Content {
	if items == nil {
		items = []string{}
	}
	return &Content{Selector: selector, URL: url, Kind: kind, Items: items}
}

// Limit keeps at most n items. n <= 0 keeps everything.
func (c *Content) Limit(n int) *Content {
	if n > 0 && len(c.Items) > n {
		c.Items = c.Items[:n]
	}
	return c
}

// ToText returns one item per line. HTML items are reduced to their text.
func (c *Content) ToText() (string, error) {
	texts, err := c.texts()
	if err != nil {
		return "", err
	}
	return strings.Join(texts, "\n"), nil
}

// ToHTML returns the items as an ordered list.
func (c *Content) ToHTML() (string, error) {
	var sb strings.Builder
	sb.WriteString("<ol>\n")
	for _, item := range c.Items {
		if c.Kind == KindHTML {
			sb.WriteString("  <li>" + item + "</li>\n")
		} else {
			sb.WriteString("  <li>" + html.EscapeString(item) + "</li>\n")
		}
	}
	sb.WriteString("</ol>\n")
	return sb.String(), nil
}

// ToMarkdown converts HTML items with html-to-markdown; text items become a
// numbered list.
func (c *Content) ToMarkdown() (string, error) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s\n\n", c.Selector))
	if c.URL != "" {
		sb.WriteString(fmt.Sprintf("Source: %s\n\n", c.URL))
	}

	if c.Kind != KindHTML {
		for i, item := range c.Items {
			sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, strings.TrimSpace(item)))
		}
		return sb.String(), nil
	}

	converter := md.NewConverter("", true, nil)
	for i, item := range c.Items {
		markdown, err := converter.ConvertString(item)
		if err != nil {
			return "", fmt.Errorf("failed to convert HTML to Markdown: %w", err)
		}
		if i > 0 {
			sb.WriteString("\n---\n\n")
		}
		sb.WriteString(markdown + "\n")
	}
	return sb.String(), nil
}

// ToJSON returns the content as indented JSON.
func (c *Content) ToJSON() ([]byte, error) {
	type jsonOutput struct {
		Selector string   `json:"selector"`
		URL      string   `json:"url"`
		Kind     Kind     `json:"kind"`
		Count    int      `json:"count"`
		Items    []string `json:"items"`
	}

	return json.MarshalIndent(jsonOutput{
		Selector: c.Selector,
		URL:      c.URL,
		Kind:     c.Kind,
		Count:    len(c.Items),
		Items:    c.Items,
	}, "", "  ")
}

// ToCSV returns an index,item table. HTML items keep their markup.
func (c *Content) ToCSV() (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"Index", "Item"})
	for i, item := range c.Items {
		_ = w.Write([]string{strconv.Itoa(i + 1), item})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to write CSV: %w", err)
	}
	return buf.String(), nil
}

func (c *Content) texts() ([]string, error) {
	if c.Kind != KindHTML {
		return c.Items, nil
	}

	texts := make([]string, 0, len(c.Items))
	for _, item := range c.Items {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(item))
		if err != nil {
			return nil, fmt.Errorf("failed to parse HTML: %w", err)
		}
		texts = append(texts, strings.Join(strings.Fields(doc.Text()), " "))
	}
	return texts, nil
}
