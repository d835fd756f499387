package cdpchat

// Extraction holds the readable part of an HTML page.
type Extraction struct {
	// Title is the page title taken from metadata or the first heading.
	Title string

	// ContentHTML is the main content with navigation, footers and other
	// page chrome removed.
	ContentHTML string
}

// Extractor pulls the main content out of an HTML page.
type Extractor interface {
	// Extract returns the readable content of rawHTML.
	// An Extraction with empty ContentHTML means nothing readable was found.
	Extract(rawHTML string) (*Extraction, error)
}
