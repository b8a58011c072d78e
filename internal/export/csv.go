// Package export writes extraction results as CSV, XLSX and JSON artifacts.
// Failed results are refused: there is nothing to receive against.
package export

import (
	"encoding/csv"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/dc-receiving/internal/common"
	"github.com/joseph-ayodele/dc-receiving/internal/entity"
)

// PackageColumns is the flattened package layout shared by CSV and the Packages sheet.
var PackageColumns = []string{"#", "Package ID", "Item Name", "Quantity Shipped", "Batch", "Item Details"}

func packageRow(p entity.PackageRecord) []string {
	return []string{
		strconv.Itoa(p.SequenceNumber),
		p.PackageID,
		p.ItemName,
		quantityText(p),
		entity.StrOrEmpty(p.BatchNumber),
		entity.StrOrEmpty(p.ItemDetails),
	}
}

func quantityText(p entity.PackageRecord) string {
	q := p.QuantityShipped.String()
	if !p.QuantityVerified {
		return q + " (unverified)"
	}
	if u := entity.StrOrEmpty(p.UnitOfMeasure); u != "" {
		return q + " " + u
	}
	return q
}

func refuseFailed(res entity.ExtractionResult) error {
	if res.Succeeded() {
		return nil
	}
	return res.Err()
}

// WriteCSV writes one row per package in sequence order.
func WriteCSV(w io.Writer, res entity.ExtractionResult) error {
	if err := refuseFailed(res); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(PackageColumns); err != nil {
		return err
	}
	for _, p := range res.Packages {
		if err := cw.Write(packageRow(p)); err != nil {
			return err
		}
	}
	cw.Flush()
	return common.WrapError(cw.Error(), "write csv")
}

var reUnsafeName = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// FileName names an artifact after the manifest number, e.g.
// manifest_0001234_packages.csv.
func FileName(res entity.ExtractionResult, ext string) string {
	number := reUnsafeName.ReplaceAllString(entity.StrOrEmpty(res.Header.ManifestNumber), "_")
	number = strings.Trim(number, "_")
	if number == "" {
		number = "unknown"
	}
	return "manifest_" + number + "_packages." + strings.TrimPrefix(ext, ".")
}
