package models

const (
	LibraryTypeManga = "manga"
	LibraryTypeComic = "comic"
	LibraryTypeBook  = "book"
)

// Library is a named collection of root folders that are scanned together.
// The type determines which filename heuristics apply to its files.
type Library struct {
	Name  string   `yaml:"name"`
	Type  string   `yaml:"type"`
	Roots []string `yaml:"roots"`
}
