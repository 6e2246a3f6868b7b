package config

import (
	"os"

	"github.com/hondana/hondana/pkg/models"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var validLibraryTypes = map[string]struct{}{
	models.LibraryTypeManga: {},
	models.LibraryTypeComic: {},
	models.LibraryTypeBook:  {},
}

// LoadLibraries reads the library definitions file. Every library needs a
// name, a known type, and at least one root folder.
func LoadLibraries(path string) ([]models.Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	var doc struct {
		Libraries []models.Library `yaml:"libraries"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.WithStack(err)
	}

	for _, library := range doc.Libraries {
		if library.Name == "" {
			return nil, errors.New("library is missing a name")
		}
		if _, ok := validLibraryTypes[library.Type]; !ok {
			return nil, errors.Errorf("library %q has unknown type %q", library.Name, library.Type)
		}
		if len(library.Roots) == 0 {
			return nil, errors.Errorf("library %q has no root folders", library.Name)
		}
	}

	return doc.Libraries, nil
}
