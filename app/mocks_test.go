package app

import (
	"context"
	"fmt"

	"instantload/domain/listing"

	"github.com/stretchr/testify/mock"
)

// MockVehicleTable records calls made against the remote table
type MockVehicleTable struct {
	mock.Mock
}

func (m *MockVehicleTable) DeleteBySource(ctx context.Context, source string) (int, error) {
	args := m.Called(ctx, source)
	return args.Int(0), args.Error(1)
}

func (m *MockVehicleTable) InsertMany(ctx context.Context, rows []listing.Row) error {
	args := m.Called(ctx, rows)
	return args.Error(0)
}

func (m *MockVehicleTable) Insert(ctx context.Context, row listing.Row) error {
	args := m.Called(ctx, row)
	return args.Error(0)
}

func (m *MockVehicleTable) CountBySource(ctx context.Context, source string) (int, error) {
	args := m.Called(ctx, source)
	return args.Int(0), args.Error(1)
}

func (m *MockVehicleTable) Close() error {
	return nil
}

// stubLoader returns a fixed raw dataset
type stubLoader struct {
	ds  *listing.Dataset
	err error
}

func (l *stubLoader) Load(ctx context.Context) (*listing.Dataset, error) {
	return l.ds, l.err
}

func (l *stubLoader) Source() string {
	return "stub.xlsx"
}

// canonicalRows builds n transformed rows with numeric prices
func canonicalRows(n int) *listing.Dataset {
	ds := &listing.Dataset{Columns: listing.CanonicalColumns}
	for i := 0; i < n; i++ {
		ds.Rows = append(ds.Rows, listing.Row{
			listing.FieldSource:        listing.NewStringValue(listing.DefaultSource),
			listing.FieldVehicleName:   listing.NewStringValue(fmt.Sprintf("쏘렌토 %d", i)),
			listing.FieldOptions:       listing.NewStringValue("파노라마 선루프"),
			listing.FieldExteriorColor: listing.NewStringValue("스노우 화이트 펄"),
			listing.FieldInteriorColor: listing.NewMissingValue(),
			listing.FieldPrice:         listing.NewNumericValue(float64(35000000 + i)),
			listing.FieldPromotion:     listing.NewMissingValue(),
			listing.FieldProductType:   listing.NewStringValue("렌트/리스"),
			listing.FieldNote:          listing.NewMissingValue(),
		})
	}
	return ds
}

// rawRows builds n loader-shaped rows under the spreadsheet headers
func rawRows(n int) *listing.Dataset {
	ds := &listing.Dataset{Columns: []string{
		listing.HeaderPromotion, listing.HeaderProductType, listing.HeaderVehicleName,
		listing.HeaderOptions, listing.HeaderExteriorColor, listing.HeaderInteriorColor,
		listing.HeaderPrice, listing.HeaderNote,
	}}
	for i := 0; i < n; i++ {
		ds.Rows = append(ds.Rows, listing.Row{
			listing.HeaderPromotion:     listing.NewStringValue("특별할인"),
			listing.HeaderProductType:   listing.NewStringValue("리스"),
			listing.HeaderVehicleName:   listing.NewStringValue(fmt.Sprintf("K5 %d", i)),
			listing.HeaderOptions:       listing.NewMissingValue(),
			listing.HeaderExteriorColor: listing.NewStringValue("오로라 블랙 펄"),
			listing.HeaderInteriorColor: listing.NewStringValue("블랙"),
			listing.HeaderPrice:         listing.NewNumericValue(28000000),
			listing.HeaderNote:          listing.NewStringValue("NaN"),
		})
	}
	return ds
}
