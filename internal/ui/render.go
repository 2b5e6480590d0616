package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/phrazzld/studygen/internal/domain"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// FlashcardNode builds
// <div class="flashcard"><h3>Q: question</h3><p>A: answer</p></div>.
// Question and answer are text nodes, so markup in them is escaped.
func FlashcardNode(card domain.Flashcard) *html.Node {
	div := element(atom.Div, ClassFlashcard)
	div.AppendChild(textElement(atom.H3, "Q: "+card.Question))
	div.AppendChild(textElement(atom.P, "A: "+card.Answer))
	return div
}

// QuizQuestionNode builds the markup for the question at index i (zero
// based): a div.quiz-question holding an h3 numbered from 1 and a
// div.quiz-options with one button.quiz-option per option, in order.
func QuizQuestionNode(i int, q domain.QuizQuestion) *html.Node {
	item := element(atom.Div, ClassQuizQuestion)
	item.AppendChild(textElement(atom.H3, fmt.Sprintf("Q%d: %s", i+1, q.Question)))

	options := element(atom.Div, ClassQuizOptions)
	for _, opt := range q.Options {
		button := textElement(atom.Button, opt)
		button.Attr = append(button.Attr, html.Attribute{Key: "class", Val: ClassQuizOption})
		options.AppendChild(button)
	}
	item.AppendChild(options)
	return item
}

// RenderText writes the rendered contents of a container as plain text:
// one line per heading, paragraph or option, and a blank line between items.
func RenderText(w io.Writer, p *Page, id string) error {
	if _, err := p.element(id); err != nil {
		return err
	}
	var b strings.Builder
	for i, item := range p.Children(id) {
		if i > 0 {
			b.WriteString("\n")
		}
		walk(item, func(n *html.Node) {
			if n.Type != html.ElementNode {
				return
			}
			switch n.DataAtom {
			case atom.H3, atom.P:
				b.WriteString(textContent(n) + "\n")
			case atom.Button:
				b.WriteString("  - " + textContent(n) + "\n")
			}
		})
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func element(a atom.Atom, class string) *html.Node {
	n := &html.Node{Type: html.ElementNode, Data: a.String(), DataAtom: a}
	if class != "" {
		n.Attr = []html.Attribute{{Key: "class", Val: class}}
	}
	return n
}

func textElement(a atom.Atom, text string) *html.Node {
	n := element(a, "")
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return n
}
