package util

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ikkim/mapaddress-backend/internal/app/model"
	"github.com/xuri/excelize/v2"
)

// AddressSheetName is the sheet written by WriteAddressSheet.
const AddressSheetName = "Addresses"

// XLSXContentType is the MIME type of workbooks produced here.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var addressHeaders = []string{"ID", "User ID", "House", "Apartment", "Category", "Latitude", "Longitude", "Favorite"}

// WriteAddressSheet renders addresses as a single-sheet workbook with a
// header row.
func WriteAddressSheet(addresses []model.Address) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), AddressSheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(addressHeaders))
	for i, h := range addressHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(AddressSheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for i, a := range addresses {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{
			a.ID, a.UserID, a.House, a.Apartment, string(a.Category),
			a.Coordinates.Lat, a.Coordinates.Lng, a.Favorite,
		}
		if err := f.SetSheetRow(AddressSheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to encode workbook: %w", err)
	}
	return buf, nil
}

// ReadAddressSheet parses the first sheet of a workbook in the
// WriteAddressSheet layout. The ID column is read but callers creating new
// records should ignore it.
func ReadAddressSheet(r io.Reader) ([]model.Address, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	var addresses []model.Address
	for i, row := range rows[1:] {
		line := i + 2
		if isBlankRow(row) {
			continue
		}
		if len(row) < 7 {
			return nil, fmt.Errorf("row %d: expected at least 7 columns, got %d", line, len(row))
		}

		lat, err := strconv.ParseFloat(strings.TrimSpace(row[5]), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid latitude %q", line, row[5])
		}
		lng, err := strconv.ParseFloat(strings.TrimSpace(row[6]), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid longitude %q", line, row[6])
		}

		favorite := false
		if len(row) > 7 && strings.TrimSpace(row[7]) != "" {
			favorite, err = strconv.ParseBool(strings.TrimSpace(row[7]))
			if err != nil {
				return nil, fmt.Errorf("row %d: invalid favorite %q", line, row[7])
			}
		}

		addresses = append(addresses, model.Address{
			ID:          strings.TrimSpace(row[0]),
			UserID:      strings.TrimSpace(row[1]),
			House:       strings.TrimSpace(row[2]),
			Apartment:   strings.TrimSpace(row[3]),
			Category:    model.Category(strings.TrimSpace(row[4])),
			Coordinates: model.Coordinates{Lat: lat, Lng: lng},
			Favorite:    favorite,
		})
	}
	return addresses, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
