package entity

import (
	"fmt"
	"math/big"
	"sort"
	"strings"

	"github.com/joseph-ayodele/dc-receiving/constants"
	"github.com/joseph-ayodele/dc-receiving/internal/common"
)

// ExtractionResult is everything one extraction call produces. RawText is kept
// for debug inspection only.
type ExtractionResult struct {
	Status      constants.ExtractionStatus `json:"status"`
	Header      ManifestHeader             `json:"header"`
	Packages    []PackageRecord            `json:"packages"`
	Diagnostics []Diagnostic               `json:"diagnostics"`
	RawText     RawDocumentText            `json:"raw_text,omitempty"`
}

func (r ExtractionResult) Succeeded() bool {
	return r.Status == constants.StatusSucceeded
}

// Err returns nil for a succeeded result. For a failed one it wraps
// common.ErrNoPackages with the first document-level diagnostic.
func (r ExtractionResult) Err() error {
	if r.Succeeded() {
		return nil
	}
	for _, d := range r.Diagnostics {
		if d.Scope.Kind == constants.ScopeDocument {
			return common.NewAppError("EXTRACTION_FAILED", d.Message, common.ErrNoPackages)
		}
	}
	return common.NewAppError("EXTRACTION_FAILED", "no packages found", common.ErrNoPackages)
}

// Warnings counts warning-severity diagnostics.
func (r ExtractionResult) Warnings() int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Severity == constants.SeverityWarning {
			n++
		}
	}
	return n
}

// Summary holds the totals shown next to the package list.
type Summary struct {
	TotalPackages  int
	WithPackageID  int
	WithItemName   int
	WithQuantity   int
	WithBatch      int
	Valid          int
	ShippedByUnit  map[string]string // unit ("" when unknown) -> exact decimal total
	DiagnosticsLen int
}

// Units returns the ShippedByUnit keys in stable order.
func (s Summary) Units() []string {
	units := make([]string, 0, len(s.ShippedByUnit))
	for u := range s.ShippedByUnit {
		units = append(units, u)
	}
	sort.Strings(units)
	return units
}

// Summary computes extraction statistics. Quantities are summed exactly; only
// verified quantities count.
func (r ExtractionResult) Summary() Summary {
	s := Summary{
		TotalPackages:  len(r.Packages),
		ShippedByUnit:  map[string]string{},
		DiagnosticsLen: len(r.Diagnostics),
	}
	sums := map[string]*big.Rat{}
	scale := map[string]int{}
	for _, p := range r.Packages {
		if p.PackageID != "" {
			s.WithPackageID++
		}
		if p.ItemName != "" {
			s.WithItemName++
		}
		if p.BatchNumber != nil {
			s.WithBatch++
		}
		if p.Valid() {
			s.Valid++
		}
		if !p.QuantityVerified {
			continue
		}
		q, ok := new(big.Rat).SetString(p.QuantityShipped.String())
		if !ok {
			continue
		}
		s.WithQuantity++
		unit := strings.ToLower(StrOrEmpty(p.UnitOfMeasure))
		if sums[unit] == nil {
			sums[unit] = new(big.Rat)
		}
		sums[unit].Add(sums[unit], q)
		if d := decimals(p.QuantityShipped.String()); d > scale[unit] {
			scale[unit] = d
		}
	}
	for unit, sum := range sums {
		s.ShippedByUnit[unit] = sum.FloatString(scale[unit])
	}
	return s
}

func decimals(num string) int {
	if i := strings.IndexByte(num, '.'); i >= 0 {
		return len(num) - i - 1
	}
	return 0
}

func (s Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "packages=%d valid=%d with_id=%d with_name=%d with_qty=%d with_batch=%d",
		s.TotalPackages, s.Valid, s.WithPackageID, s.WithItemName, s.WithQuantity, s.WithBatch)
	for _, u := range s.Units() {
		label := u
		if label == "" {
			label = "(no unit)"
		}
		fmt.Fprintf(&b, " shipped[%s]=%s", label, s.ShippedByUnit[u])
	}
	return b.String()
}
