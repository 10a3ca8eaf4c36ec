package render

import (
	"fmt"
	"io"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/gardar/formscribe/pkg/record"
)

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func appendChildren(parent *html.Node, children ...*html.Node) *html.Node {
	for _, c := range children {
		parent.AppendChild(c)
	}
	return parent
}

// HTML writes rec as a standalone HTML document holding a single table. Values are escaped,
// so tag markers show up literally.
func HTML(w io.Writer, rec *record.Record, title string) error {
	tbody := element(atom.Tbody)
	for _, r := range Rows(rec) {
		tbody.AppendChild(appendChildren(element(atom.Tr),
			appendChildren(element(atom.Th, html.Attribute{Key: "scope", Val: "row"}), text(r.Field)),
			appendChildren(element(atom.Td), text(r.Value)),
		))
	}

	table := appendChildren(element(atom.Table, html.Attribute{Key: "class", Val: "formscribe-record"}),
		appendChildren(element(atom.Thead),
			appendChildren(element(atom.Tr),
				appendChildren(element(atom.Th, html.Attribute{Key: "scope", Val: "col"}), text(FieldHeader)),
				appendChildren(element(atom.Th, html.Attribute{Key: "scope", Val: "col"}), text(ValueHeader)),
			),
		),
		tbody,
	)

	doc := &html.Node{Type: html.DocumentNode}
	appendChildren(doc,
		&html.Node{Type: html.DoctypeNode, Data: "html"},
		appendChildren(element(atom.Html, html.Attribute{Key: "lang", Val: "en"}),
			appendChildren(element(atom.Head),
				element(atom.Meta, html.Attribute{Key: "charset", Val: "utf-8"}),
				appendChildren(element(atom.Title), text(title)),
			),
			appendChildren(element(atom.Body),
				appendChildren(element(atom.H1), text(title)),
				table,
			),
		),
	)

	if err := html.Render(w, doc); err != nil {
		return fmt.Errorf("failed to render HTML: %w", err)
	}
	return nil
}
