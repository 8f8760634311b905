package excel

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"time"

	"instantload/domain/listing"
	"instantload/internal/errors"
	"instantload/internal/logger"

	"github.com/xuri/excelize/v2"
)

// DataReader loads a listing sheet from an Excel or CSV file
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	sheet    string
	layout   Layout
}

// NewDataReader creates a reader for filePath. An empty sheet selects the
// first worksheet of a workbook; it is ignored for CSV files.
func NewDataReader(filePath, sheet string) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &DataReader{
		filePath: filePath,
		fileType: fileType,
		sheet:    sheet,
		layout:   DefaultLayout(),
	}
}

// Source describes where the reader loads from
func (r *DataReader) Source() string {
	return r.filePath
}

// Load reads the listing columns into a raw Dataset
func (r *DataReader) Load(ctx context.Context) (*listing.Dataset, error) {
	log := logger.Component(ctx, "loader")
	log.Info().Str("file", r.filePath).Str("type", r.fileType).Msg("reading listing file")

	info, err := os.Stat(r.filePath)
	if err != nil {
		return nil, errors.FileError(r.filePath, err)
	}
	if info.IsDir() {
		return nil, errors.FileError(r.filePath, errors.New(errors.CodeFileError, "path is a directory"))
	}

	startTime := time.Now()
	var rows [][]string
	switch r.fileType {
	case "csv":
		rows, err = r.readCSVRows()
	default:
		rows, err = r.readExcelRows()
	}
	if err != nil {
		return nil, err
	}

	ds, skipped, err := r.layout.Build(StringRows(rows))
	if err != nil {
		return nil, errors.Wrapf(err, "unexpected column layout in %s", r.filePath)
	}

	log.Info().
		Int("rows", ds.Len()).
		Int("blank_rows_skipped", skipped).
		Dur("elapsed", time.Since(startTime)).
		Msg("listing file read")

	return ds, nil
}

// readExcelRows returns the raw cell values of the selected worksheet
func (r *DataReader) readExcelRows() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, errors.FileError(r.filePath, err)
	}
	defer f.Close()

	sheet := r.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.FormatError("workbook has no worksheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.WithCode(errors.CodeFormatError, err, "failed to read sheet "+sheet)
	}
	return rows, nil
}

// readCSVRows reads a CSV export of the listing sheet
func (r *DataReader) readCSVRows() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, errors.FileError(r.filePath, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.WithCode(errors.CodeFormatError, err, "failed to parse CSV file")
	}
	trimBOM(rows)
	return rows, nil
}
