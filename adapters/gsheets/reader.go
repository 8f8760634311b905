package gsheets

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"instantload/adapters/excel"
	"instantload/domain/listing"
	"instantload/internal/errors"
	"instantload/internal/logger"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

var spreadsheetURL = regexp.MustCompile(`^https://docs.google.com/spreadsheets/d/(.*?)(?:/.*)?$`)

// SpreadsheetID extracts the spreadsheet ID from a Google Sheets URL. A bare
// ID is returned unchanged.
func SpreadsheetID(url string) (string, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return "", errors.ConfigInvalid("spreadsheet URL is required")
	}
	if !strings.Contains(url, "/") {
		return url, nil
	}
	match := spreadsheetURL.FindStringSubmatch(url)
	if len(match) < 2 || match[1] == "" {
		return "", errors.ConfigInvalid(fmt.Sprintf("invalid spreadsheet URL %q - expected something like 'https://docs.google.com/spreadsheets/d/<id>'", url))
	}
	return match[1], nil
}

// Reader loads a listing sheet from Google Sheets
type Reader struct {
	service     *sheets.Service
	spreadsheet string
	area        string
	layout      excel.Layout
}

// NewReader creates a Sheets reader. With a credentials file the service
// account in it is used, otherwise the extra client options must authorise.
func NewReader(ctx context.Context, url, area, credentials string, opts ...option.ClientOption) (*Reader, error) {
	id, err := SpreadsheetID(url)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(area) == "" {
		return nil, errors.ConfigInvalid("spreadsheet range is required e.g. 'Sheet1!A1:J'")
	}

	if credentials != "" {
		opts = append([]option.ClientOption{
			option.WithCredentialsFile(credentials),
			option.WithScopes(sheets.SpreadsheetsReadonlyScope),
		}, opts...)
	}

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, errors.ConnectionError("google sheets", err)
	}

	return &Reader{
		service:     service,
		spreadsheet: id,
		area:        area,
		layout:      excel.DefaultLayout(),
	}, nil
}

// Source describes where the reader loads from
func (r *Reader) Source() string {
	return fmt.Sprintf("sheets:%s!%s", r.spreadsheet, r.area)
}

// Load fetches the range and builds the raw Dataset
func (r *Reader) Load(ctx context.Context) (*listing.Dataset, error) {
	log := logger.Component(ctx, "loader")
	log.Info().Str("spreadsheet", r.spreadsheet).Str("range", r.area).Msg("reading listing sheet")

	response, err := r.service.Spreadsheets.Values.Get(r.spreadsheet, r.area).
		ValueRenderOption("UNFORMATTED_VALUE").
		MajorDimension("ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return nil, errors.FileError(r.Source(), err)
	}

	if len(response.Values) == 0 {
		return nil, errors.FormatError("no data in spreadsheet/range")
	}

	ds, skipped, err := r.layout.Build(response.Values)
	if err != nil {
		return nil, errors.Wrapf(err, "unexpected column layout in %s", r.Source())
	}

	log.Info().Int("rows", ds.Len()).Int("blank_rows_skipped", skipped).Msg("listing sheet read")
	return ds, nil
}
