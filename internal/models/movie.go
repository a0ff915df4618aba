package models

// Movie is a title/link pair scraped from an archive page. Link is unique.
type Movie struct {
	ID    int64  `json:"id,omitempty" yaml:"id,omitempty"`
	Title string `json:"title" yaml:"title"`
	Link  string `json:"link" yaml:"link"`
}
