package sqlite

import (
	"context"
	"net/url"
	"strings"

	"github.com/fwojciec/cdpchat"
)

// Scheme prefixes locations served by Source.
const Scheme = "sqlite:"

// Ensure Source implements cdpchat.DocumentSource at compile time.
var _ cdpchat.DocumentSource = (*Source)(nil)

// Source reads the documents of one crawled project. Locations look like
// sqlite:path/to/locdoc.db?project=segment. The project may be omitted
// when the database holds a single project.
type Source struct{}

// NewSource creates a new Source.
func NewSource() *Source {
	return &Source{}
}

// Documents returns the project's documents in crawl order.
func (s *Source) Documents(ctx context.Context, location string) ([]*cdpchat.Document, error) {
	path, project, err := ParseLocation(location)
	if err != nil {
		return nil, err
	}

	db := NewDB(path, ReadOnly())
	if err := db.Open(); err != nil {
		return nil, err
	}
	defer db.Close()

	if project == "" {
		if project, err = onlyProject(ctx, db); err != nil {
			return nil, err
		}
	}

	rows, err := db.QueryContext(ctx, `
		SELECT d.title, d.source_url, d.content
		FROM documents d
		JOIN projects p ON p.id = d.project_id
		WHERE p.name = ?
		ORDER BY d.position, d.fetched_at`, project)
	if err != nil {
		return nil, cdpchat.Errorf(cdpchat.EINTERNAL, "querying documents: %v", err)
	}
	defer rows.Close()

	var docs []*cdpchat.Document
	for rows.Next() {
		doc := &cdpchat.Document{ContentType: cdpchat.ContentTypeMarkdown}
		if err := rows.Scan(&doc.Title, &doc.Source, &doc.Content); err != nil {
			return nil, cdpchat.Errorf(cdpchat.EINTERNAL, "scanning document: %v", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, cdpchat.Errorf(cdpchat.EINTERNAL, "reading documents: %v", err)
	}

	if len(docs) == 0 {
		return nil, cdpchat.Errorf(cdpchat.ENOTFOUND, "no documents for project %q in %s", project, path)
	}
	return docs, nil
}

// ParseLocation splits a sqlite: location into the database path and the
// project name.
func ParseLocation(location string) (path, project string, err error) {
	if !strings.HasPrefix(location, Scheme) {
		return "", "", cdpchat.Errorf(cdpchat.EINVALID, "not a sqlite location: %q", location)
	}
	rest := strings.TrimPrefix(location, Scheme)

	path, query, _ := strings.Cut(rest, "?")
	if path == "" {
		return "", "", cdpchat.Errorf(cdpchat.EINVALID, "database path required in %q", location)
	}
	values, err := url.ParseQuery(query)
	if err != nil {
		return "", "", cdpchat.Errorf(cdpchat.EINVALID, "invalid query in %q: %v", location, err)
	}
	return path, values.Get("project"), nil
}

func onlyProject(ctx context.Context, db *DB) (string, error) {
	rows, err := db.QueryContext(ctx, `SELECT name FROM projects ORDER BY name LIMIT 2`)
	if err != nil {
		return "", cdpchat.Errorf(cdpchat.EINTERNAL, "listing projects: %v", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return "", cdpchat.Errorf(cdpchat.EINTERNAL, "scanning project: %v", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return "", cdpchat.Errorf(cdpchat.EINTERNAL, "listing projects: %v", err)
	}

	switch len(names) {
	case 0:
		return "", cdpchat.Errorf(cdpchat.ENOTFOUND, "database has no projects")
	case 1:
		return names[0], nil
	default:
		return "", cdpchat.Errorf(cdpchat.EINVALID, "database has several projects; add ?project=name")
	}
}
