package portfolio

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/turtacn/PatentVault/internal/domain/patent"
	"github.com/turtacn/PatentVault/pkg/errors"
)

// ReadSeed decodes a JSON or YAML array of records. The format follows the
// file extension; anything but .json is read as YAML.
func ReadSeed(path string) ([]*patent.Patent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidParam, "reading seed file").WithDetail(path)
	}
	var records []*patent.Patent
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &records)
	default:
		err = yaml.Unmarshal(data, &records)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidParam, "decoding seed file").WithDetail(path)
	}
	return records, nil
}

// LoadSeed imports the records of a seed file into an empty portfolio. A
// portfolio that already holds records is left untouched and 0 is returned.
func LoadSeed(ctx context.Context, svc Service, path string) (int, error) {
	existing, err := svc.List(ctx, Filter{})
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}
	records, err := ReadSeed(path)
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, nil
	}
	imported, err := svc.Import(ctx, records...)
	if err != nil {
		return 0, err
	}
	return len(imported), nil
}

//Personal.AI order the ending
