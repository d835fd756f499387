package corpus

import (
	"strings"

	"github.com/fwojciec/cdpchat"
)

// render replaces an HTML document's content with Markdown of its main
// content. The first extractor that finds any content wins, and the page
// title it reports replaces the document title.
func (l *Loader) render(doc *cdpchat.Document) error {
	if len(l.Extractors) == 0 || l.Converter == nil {
		return cdpchat.Errorf(cdpchat.EINVALID, "HTML documents are not supported")
	}

	var lastErr error
	for _, ext := range l.Extractors {
		extracted, err := ext.Extract(doc.Content)
		if err != nil {
			lastErr = err
			continue
		}
		if strings.TrimSpace(extracted.ContentHTML) == "" {
			continue
		}

		md, err := l.Converter.Convert(extracted.ContentHTML)
		if err != nil {
			lastErr = err
			continue
		}
		if strings.TrimSpace(md) == "" {
			continue
		}

		doc.Content = md
		doc.ContentType = cdpchat.ContentTypeMarkdown
		if extracted.Title != "" {
			doc.Title = extracted.Title
		}
		return nil
	}

	if lastErr != nil {
		return cdpchat.Errorf(cdpchat.EINVALID, "no readable content in %s: %s", doc.Source, cdpchat.ErrorMessage(lastErr))
	}
	return cdpchat.Errorf(cdpchat.EINVALID, "no readable content in %s", doc.Source)
}
