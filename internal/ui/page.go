package ui

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Element ids every page must carry.
const (
	IDInputText    = "inputText"
	IDFlashcards   = "flashcards"
	IDQuiz         = "quiz"
	IDLoginForm    = "loginForm"
	IDRegisterForm = "registerForm"

	// IDNotice is optional; pages without it cannot show notices.
	IDNotice = "notice"
)

// Classes of rendered generation output.
const (
	ClassFlashcard    = "flashcard"
	ClassQuizQuestion = "quiz-question"
	ClassQuizOptions  = "quiz-options"
	ClassQuizOption   = "quiz-option"
)

// Display values used by the form toggle.
const (
	DisplayNone  = "none"
	DisplayBlock = "block"
)

// ErrMissingElement is returned when a page lacks a required element.
var ErrMissingElement = errors.New("missing page element")

var requiredIDs = []string{IDInputText, IDFlashcards, IDQuiz, IDLoginForm, IDRegisterForm}

//go:embed assets/index.html
var indexHTML []byte

// Page is a parsed HTML document addressed by element id. It is not safe
// for concurrent use; Controller serializes its own access.
type Page struct {
	doc  *html.Node
	byID map[string]*html.Node
}

// ParsePage parses an HTML document and checks that it carries every
// required element.
func ParsePage(r io.Reader) (*Page, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	p := &Page{doc: doc, byID: make(map[string]*html.Node)}
	walk(doc, func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		if id := attr(n, "id"); id != "" {
			if _, seen := p.byID[id]; !seen {
				p.byID[id] = n
			}
		}
	})

	var missing []string
	for _, id := range requiredIDs {
		if _, ok := p.byID[id]; !ok {
			missing = append(missing, "#"+id)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingElement, strings.Join(missing, ", "))
	}
	return p, nil
}

// LoadIndex returns a fresh copy of the built-in index page.
func LoadIndex() (*Page, error) {
	return ParsePage(bytes.NewReader(indexHTML))
}

func (p *Page) element(id string) (*html.Node, error) {
	n, ok := p.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: #%s", ErrMissingElement, id)
	}
	return n, nil
}

// HasElement reports whether the page has an element with id.
func (p *Page) HasElement(id string) bool {
	_, ok := p.byID[id]
	return ok
}

// InputValue returns the current value of #inputText, untrimmed.
func (p *Page) InputValue() string {
	n := p.byID[IDInputText]
	if n.DataAtom == atom.Input {
		return attr(n, "value")
	}
	return textContent(n)
}

// SetInputValue replaces the value of #inputText.
func (p *Page) SetInputValue(value string) {
	n := p.byID[IDInputText]
	if n.DataAtom == atom.Input {
		setAttr(n, "value", value)
		return
	}
	removeChildren(n)
	n.AppendChild(&html.Node{Type: html.TextNode, Data: value})
}

// Clear removes every child of the element.
func (p *Page) Clear(id string) error {
	n, err := p.element(id)
	if err != nil {
		return err
	}
	removeChildren(n)
	return nil
}

// Append adds children to the end of the element.
func (p *Page) Append(id string, children ...*html.Node) error {
	n, err := p.element(id)
	if err != nil {
		return err
	}
	for _, c := range children {
		n.AppendChild(c)
	}
	return nil
}

// Children returns the element children of the element, in order.
func (p *Page) Children(id string) []*html.Node {
	n, ok := p.byID[id]
	if !ok {
		return nil
	}
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// Text returns the text content of the element.
func (p *Page) Text(id string) string {
	n, ok := p.byID[id]
	if !ok {
		return ""
	}
	return textContent(n)
}

// SetText replaces the element's children with a single text node.
func (p *Page) SetText(id, text string) error {
	n, err := p.element(id)
	if err != nil {
		return err
	}
	removeChildren(n)
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return nil
}

// Display returns the element's inline display value, or "" when unset.
func (p *Page) Display(id string) string {
	n, ok := p.byID[id]
	if !ok {
		return ""
	}
	for _, decl := range strings.Split(attr(n, "style"), ";") {
		name, value, found := strings.Cut(decl, ":")
		if found && strings.EqualFold(strings.TrimSpace(name), "display") {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

// SetDisplay sets the element's inline display value, keeping any other
// inline style declarations.
func (p *Page) SetDisplay(id, value string) error {
	n, err := p.element(id)
	if err != nil {
		return err
	}
	var decls []string
	for _, decl := range strings.Split(attr(n, "style"), ";") {
		name, _, _ := strings.Cut(decl, ":")
		if strings.TrimSpace(decl) == "" || strings.EqualFold(strings.TrimSpace(name), "display") {
			continue
		}
		decls = append(decls, strings.TrimSpace(decl))
	}
	decls = append(decls, "display: "+value)
	setAttr(n, "style", strings.Join(decls, "; "))
	return nil
}

// ShowNotice displays a message in #notice. level becomes a CSS class
// suffix, e.g. "success" or "danger".
func (p *Page) ShowNotice(message, level string) error {
	n, err := p.element(IDNotice)
	if err != nil {
		return err
	}
	if err := p.SetText(IDNotice, message); err != nil {
		return err
	}
	class := "notice"
	if level != "" {
		class += " notice-" + level
	}
	setAttr(n, "class", class)
	return p.SetDisplay(IDNotice, DisplayBlock)
}

// Render writes the whole document.
func (p *Page) Render(w io.Writer) error {
	return html.Render(w, p.doc)
}

// RenderInner writes the markup of the element's children.
func (p *Page) RenderInner(w io.Writer, id string) error {
	n, err := p.element(id)
	if err != nil {
		return err
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(w, c); err != nil {
			return err
		}
	}
	return nil
}

// InnerHTML returns the markup of the element's children.
func (p *Page) InnerHTML(id string) string {
	var buf bytes.Buffer
	if err := p.RenderInner(&buf, id); err != nil {
		return ""
	}
	return buf.String()
}

func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeChildren(n *html.Node) {
	for n.FirstChild != nil {
		n.RemoveChild(n.FirstChild)
	}
}

func textContent(n *html.Node) string {
	var b strings.Builder
	walk(n, func(c *html.Node) {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	})
	return b.String()
}
