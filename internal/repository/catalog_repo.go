package repository

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"MCQ-Quiz-Generator/internal/catalog"
)

type catalogFile struct {
	Subjects []catalog.Subject `json:"subjects"`
}

// LoadCatalog reads the subject table from jsonPath, or returns the
// built-in table when jsonPath is empty.
func LoadCatalog(jsonPath string, log *zap.Logger) (*catalog.Catalog, error) {
	if jsonPath == "" {
		c := catalog.Default()
		log.Info("using built-in subject catalog", zap.Int("subjects", len(c.Names())))
		return c, nil
	}

	byteValue, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, errors.Wrapf(err, "read catalog file %q", jsonPath)
	}
	var file catalogFile
	if err := json.Unmarshal(byteValue, &file); err != nil {
		return nil, errors.Wrapf(err, "parse catalog file %q", jsonPath)
	}
	c, err := catalog.New(file.Subjects)
	if err != nil {
		return nil, errors.Wrapf(err, "catalog file %q", jsonPath)
	}

	log.Info("subject catalog loaded",
		zap.String("path", jsonPath),
		zap.Int("subjects", len(file.Subjects)),
	)
	return c, nil
}
