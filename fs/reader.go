// Package fs reads platform documentation from the local filesystem.
package fs

import (
	"context"
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/cdpchat"
	"gopkg.in/yaml.v3"
)

// Ensure Reader implements cdpchat.DocumentSource at compile time.
var _ cdpchat.DocumentSource = (*Reader)(nil)

// contentTypes maps supported file extensions to document content types.
var contentTypes = map[string]string{
	".txt":      cdpchat.ContentTypeText,
	".text":     cdpchat.ContentTypeText,
	".md":       cdpchat.ContentTypeMarkdown,
	".markdown": cdpchat.ContentTypeMarkdown,
	".html":     cdpchat.ContentTypeHTML,
	".htm":      cdpchat.ContentTypeHTML,
}

// Reader reads documents from a file or a directory tree.
//
// A file location yields one document whatever its extension. A directory
// yields every supported file below it in lexical path order; hidden files
// and directories are skipped. Markdown files may start with a YAML
// frontmatter block carrying title and source, as written by locdoc's
// docfetch.
type Reader struct{}

// NewReader creates a new Reader.
func NewReader() *Reader {
	return &Reader{}
}

// Documents returns the documents stored at location.
func (r *Reader) Documents(ctx context.Context, location string) ([]*cdpchat.Document, error) {
	info, err := os.Stat(location)
	if errors.Is(err, iofs.ErrNotExist) {
		return nil, cdpchat.Errorf(cdpchat.ENOTFOUND, "no documentation found at %q", location)
	} else if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		doc, err := readDocument(location)
		if err != nil {
			return nil, err
		}
		return []*cdpchat.Document{doc}, nil
	}

	var docs []*cdpchat.Document
	err = filepath.WalkDir(location, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path != location && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := contentTypes[strings.ToLower(filepath.Ext(path))]; !ok {
			return nil
		}

		doc, err := readDocument(path)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, cdpchat.Errorf(cdpchat.ENOTFOUND, "no documentation files in %q", location)
	}
	return docs, nil
}

func readDocument(path string) (*cdpchat.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(path))
	contentType, ok := contentTypes[ext]
	if !ok {
		contentType = cdpchat.ContentTypeText
	}

	doc := &cdpchat.Document{
		Title:       strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Source:      path,
		Content:     string(data),
		ContentType: contentType,
	}
	if contentType == cdpchat.ContentTypeMarkdown {
		if err := parseFrontmatter(doc); err != nil {
			return nil, cdpchat.Errorf(cdpchat.EINVALID, "invalid frontmatter in %q: %v", path, err)
		}
	}
	return doc, nil
}

// frontmatter is the metadata block docfetch writes at the top of pages.
type frontmatter struct {
	Source string `yaml:"source"`
	Title  string `yaml:"title"`
}

// parseFrontmatter moves a leading "---" YAML block out of doc.Content
// and into the document's title and source.
func parseFrontmatter(doc *cdpchat.Document) error {
	const fence = "---\n"
	content := strings.ReplaceAll(doc.Content, "\r\n", "\n")
	if !strings.HasPrefix(content, fence) {
		return nil
	}
	end := strings.Index(content[len(fence):], "\n"+fence)
	if end < 0 {
		return nil
	}

	var fm frontmatter
	if err := yaml.Unmarshal([]byte(content[len(fence):len(fence)+end]), &fm); err != nil {
		return err
	}

	doc.Content = strings.TrimLeft(content[len(fence)+end+1+len(fence):], "\n")
	if fm.Title != "" {
		doc.Title = fm.Title
	}
	if fm.Source != "" {
		doc.Source = fm.Source
	}
	return nil
}
