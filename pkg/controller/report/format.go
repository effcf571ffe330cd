package report

import (
	"strings"

	"github.com/m-mizutani/bound/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// Format is the output encoding of a report
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatTSV  Format = "tsv"
)

// ParseFormat converts a user supplied format name
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatTSV:
		return f, nil
	default:
		return "", goerr.New("unsupported report format",
			goerr.V("format", s),
			goerr.T(types.ErrTagConfig))
	}
}

// ContentType returns the MIME type used when uploading a report
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatTSV:
		return "text/tab-separated-values"
	default:
		return "text/plain; charset=utf-8"
	}
}

// View selects which side of a report is rendered
type View string

const (
	ViewOwners       View = "owners"
	ViewContributors View = "contributors"
)
