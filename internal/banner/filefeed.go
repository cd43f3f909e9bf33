package banner

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileFeed reads banners from a local YAML file of the form
//
//	banners:
//	  - id: ...
//	    startDate: ...
type FileFeed struct {
	Path string
}

type fileDoc struct {
	Banners []Record `yaml:"banners"`
}

// Name implements Named.
func (f FileFeed) Name() string { return "file:" + f.Path }

// FetchBanners reads and decodes the file on every call.
func (f FileFeed) FetchBanners(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, err
	}
	var doc fileDoc
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", f.Path, err)
	}
	return doc.Banners, nil
}
