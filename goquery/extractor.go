// Package goquery extracts documentation content with CSS selectors chosen
// for the site generator that produced the page.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/cdpchat"
)

// Ensure Extractor implements cdpchat.Extractor at compile time.
var _ cdpchat.Extractor = (*Extractor)(nil)

type framework string

const (
	frameworkUnknown    framework = ""
	frameworkDocusaurus framework = "docusaurus"
	frameworkMkDocs     framework = "mkdocs"
	frameworkSphinx     framework = "sphinx"
	frameworkVitePress  framework = "vitepress"
	frameworkVuePress   framework = "vuepress"
	frameworkGitBook    framework = "gitbook"
	frameworkNextra     framework = "nextra"
)

// contentSelectors lists where each generator puts the page body, most
// specific first.
var contentSelectors = map[framework][]string{
	frameworkDocusaurus: {"article .theme-doc-markdown", "article .markdown", "article"},
	frameworkMkDocs:     {".md-content__inner", ".md-content"},
	frameworkSphinx:     {"div[role='main']", "div.body", "div.document"},
	frameworkVitePress:  {".vp-doc", "#VPContent"},
	frameworkVuePress:   {".theme-default-content"},
	frameworkGitBook:    {"main"},
	frameworkNextra:     {"article", "main"},
}

var genericSelectors = []string{"main", "article", "[role='main']", "#content", "body"}

// chrome is removed from the content root before it is returned.
const chrome = "script, style, noscript, template, svg, iframe, form, button, nav, body > header, footer, aside, " +
	".theme-doc-toc-desktop, .theme-doc-breadcrumbs, .pagination-nav, .md-sidebar, .md-footer, " +
	".headerlink, .hash-link, .edit-this-page, [aria-hidden='true']"

// Extractor is the last extractor tried on fetched pages. It never reports
// a page as unreadable as long as the page has a body.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the content root of rawHTML with navigation removed.
func (e *Extractor) Extract(rawHTML string) (*cdpchat.Extraction, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, cdpchat.Errorf(cdpchat.EINVALID, "empty HTML input")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, cdpchat.Errorf(cdpchat.EINVALID, "parsing HTML: %v", err)
	}

	root := contentRoot(doc, detect(doc))
	if root == nil {
		return &cdpchat.Extraction{Title: pageTitle(doc, nil)}, nil
	}
	title := pageTitle(doc, root)
	root.Find(chrome).Remove()

	content, err := goquery.OuterHtml(root)
	if err != nil {
		return nil, cdpchat.Errorf(cdpchat.EINTERNAL, "rendering content: %v", err)
	}
	if strings.TrimSpace(root.Text()) == "" {
		content = ""
	}

	return &cdpchat.Extraction{
		Title:       title,
		ContentHTML: content,
	}, nil
}

func contentRoot(doc *goquery.Document, fw framework) *goquery.Selection {
	for _, sel := range append(contentSelectors[fw], genericSelectors...) {
		if s := doc.Find(sel).First(); s.Length() > 0 {
			return s
		}
	}
	return nil
}

func pageTitle(doc *goquery.Document, root *goquery.Selection) string {
	if root != nil {
		if h1 := strings.TrimSpace(root.Find("h1").First().Text()); h1 != "" {
			return h1
		}
	}
	if og, ok := doc.Find("meta[property='og:title']").Attr("content"); ok && strings.TrimSpace(og) != "" {
		return strings.TrimSpace(og)
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

// detect identifies the site generator from its markup.
func detect(doc *goquery.Document) framework {
	if fw := detectFromGenerator(doc); fw != frameworkUnknown {
		return fw
	}

	switch {
	case has(doc, "#__docusaurus_skipToContent_fallback", ".theme-doc-sidebar-container"):
		return frameworkDocusaurus
	case has(doc, "[data-md-color-scheme]", "[data-md-component]"):
		return frameworkMkDocs
	case has(doc, ".wy-nav-side", ".sphinxsidebar", ".toctree-wrapper"):
		return frameworkSphinx
	case has(doc, "#VPContent", ".VPDoc"):
		return frameworkVitePress
	case has(doc, ".theme-default-content", ".vuepress-navbar"):
		return frameworkVuePress
	case has(doc, "[data-testid='space.sidebar']"):
		return frameworkGitBook
	case has(doc, ".nextra-navbar", ".nextra-sidebar", ".nextra-toc"):
		return frameworkNextra
	}
	return frameworkUnknown
}

func detectFromGenerator(doc *goquery.Document) framework {
	generator, _ := doc.Find("meta[name='generator']").Attr("content")
	generator = strings.ToLower(generator)
	if generator == "" {
		return frameworkUnknown
	}

	for _, fw := range []framework{
		frameworkSphinx, frameworkGitBook, frameworkDocusaurus, frameworkMkDocs,
		frameworkVitePress, frameworkVuePress, frameworkNextra,
	} {
		if strings.Contains(generator, string(fw)) {
			return fw
		}
	}
	return frameworkUnknown
}

func has(doc *goquery.Document, selectors ...string) bool {
	for _, sel := range selectors {
		if doc.Find(sel).Length() > 0 {
			return true
		}
	}
	return false
}
