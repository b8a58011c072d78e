package manifest

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/joseph-ayodele/dc-receiving/internal/entity"
)

type lineKind int

const (
	kindName lineKind = iota
	kindDetail
	kindQuantity
	kindUnit
	kindBatch
	kindAnchor
	kindReceived
	kindIgnored
)

type classified struct {
	kind  lineKind
	value string
	rest  string // text after a detail that belongs to the name pool
	num   string
	unit  string

	raw      string // quantity text as written
	labelled bool   // quantity came with a "Shp:" style label
	at       int    // name-pool position when the quantity was seen
}

var reBareNumber = regexp.MustCompile(`^` + numberExpr + `$`)

// classify looks at one line in isolation. Adjacency (number next to unit,
// label followed by its value) is resolved by the caller.
func classify(line string) classified {
	if v, ok := matchBatch(line); ok {
		return classified{kind: kindBatch, value: v}
	}
	if _, v, ok := matchLabel(line); ok {
		return classified{kind: kindAnchor, value: v}
	}
	if isBoilerplate(line) {
		return classified{kind: kindIgnored}
	}
	if m := reShippedQuantity.FindStringSubmatch(line); m != nil {
		c := quantityOf(m[1], m[2], line)
		c.labelled = true
		return c
	}
	if m := reReceivedLabel.FindStringSubmatch(line); m != nil {
		return classified{kind: kindReceived, value: strings.TrimSpace(m[1])}
	}
	if m := reDetailMeasure.FindStringSubmatch(line); m != nil {
		return classified{kind: kindDetail, value: m[1], rest: m[2]}
	}
	if reDetail.MatchString(line) {
		return classified{kind: kindDetail, value: line}
	}
	if m := reBareQuantity.FindStringSubmatch(line); m != nil && (m[2] == "" || isKnownUnit(m[2])) {
		return quantityOf(m[1], m[2], line)
	}
	if isKnownUnit(line) {
		return classified{kind: kindUnit, unit: line}
	}
	if m := reNameLabel.FindStringSubmatch(line); m != nil {
		if v := strings.TrimSpace(m[1]); v != "" {
			return classified{kind: kindName, value: v}
		}
		return classified{kind: kindIgnored}
	}
	return classified{kind: kindName, value: line}
}

func quantityOf(num, unit, raw string) classified {
	if !isKnownUnit(unit) {
		unit = ""
	}
	return classified{kind: kindQuantity, num: num, unit: strings.TrimSpace(unit), raw: raw}
}

// canonicalNumber strips thousands separators and adds the leading zero a
// bare ".5" lacks, leaving the digits otherwise as written.
func canonicalNumber(num string) json.Number {
	num = strings.ReplaceAll(num, ",", "")
	if strings.HasPrefix(num, ".") {
		num = "0" + num
	}
	return json.Number(num)
}

type blockParser struct {
	lines      []string
	names      []string
	details    []string
	batches    []string
	quantities []classified
}

func (p *blockParser) run() {
	for i := 0; i < len(p.lines); i++ {
		line := p.lines[i]
		if segs := reSegmentSplit.Split(line, -1); len(segs) > 1 && !isBoilerplate(line) {
			for _, seg := range segs {
				p.addSegment(seg)
			}
			continue
		}

		c := classify(line)
		switch c.kind {
		case kindBatch:
			if c.value == "" && p.valueAt(i+1) {
				i++
				c.value = p.lines[i]
			}
			p.addBatch(c.value)
		case kindAnchor:
			// interleaved page header; its value may have wrapped
			if c.value == "" && p.valueAt(i+1) {
				i++
			}
		case kindReceived:
			if c.value == "" {
				i += p.quantityRunAt(i + 1)
			}
		case kindQuantity:
			if c.unit == "" && i+1 < len(p.lines) && isKnownUnit(p.lines[i+1]) {
				i++
				c.unit = p.lines[i]
				c.raw = line + " " + c.unit
			}
			p.addQuantity(c)
		case kindUnit:
			if i+1 < len(p.lines) && reBareNumber.MatchString(p.lines[i+1]) {
				i++
				num := p.lines[i]
				p.addQuantity(classified{kind: kindQuantity, num: num, unit: c.unit, raw: num + " " + c.unit})
			}
			// a unit with no number beside it is layout noise
		case kindDetail:
			p.details = append(p.details, c.value)
			if c.rest != "" {
				p.addSegment(c.rest)
			}
		case kindName:
			p.names = append(p.names, c.value)
		}
	}
}

// addSegment handles one "|"-separated cell of a table row. Cells have no
// neighbours to merge with, so bare measurements there describe the item.
func (p *blockParser) addSegment(seg string) {
	seg = strings.TrimSpace(seg)
	if seg == "" {
		return
	}
	if reMeasurement.MatchString(seg) {
		p.details = append(p.details, seg)
		return
	}
	c := classify(seg)
	switch c.kind {
	case kindBatch:
		p.addBatch(c.value)
	case kindQuantity:
		p.addQuantity(c)
	case kindDetail:
		p.details = append(p.details, c.value)
		if c.rest != "" {
			p.addSegment(c.rest)
		}
	case kindName:
		p.names = append(p.names, c.value)
	}
}

func (p *blockParser) addQuantity(c classified) {
	c.at = len(p.names)
	p.quantities = append(p.quantities, c)
}

// resolveQuantities picks the shipped quantity and returns the candidates
// that lost. A labelled quantity beats bare numbers: bare weights and volumes
// then become item details and bare counts such as "5 Pack" go back to the
// name where they were read. Without a label, weights and volumes yield to
// any count or unitless candidate.
func (p *blockParser) resolveQuantities() (*classified, []classified) {
	var labelled, bare []classified
	for _, q := range p.quantities {
		if q.labelled {
			labelled = append(labelled, q)
		} else {
			bare = append(bare, q)
		}
	}

	var keep, toName []classified
	if len(labelled) > 0 {
		keep = labelled
		for _, q := range bare {
			switch {
			case isMeasureUnit(q.unit):
				p.details = append(p.details, q.raw)
			case q.unit != "":
				toName = append(toName, q)
			default:
				keep = append(keep, q)
			}
		}
	} else {
		counted := false
		for _, q := range bare {
			if !isMeasureUnit(q.unit) {
				counted = true
				break
			}
		}
		for _, q := range bare {
			if counted && isMeasureUnit(q.unit) {
				p.details = append(p.details, q.raw)
				continue
			}
			keep = append(keep, q)
		}
	}

	for i := len(toName) - 1; i >= 0; i-- {
		q := toName[i]
		p.names = append(p.names[:q.at], append([]string{q.raw}, p.names[q.at:]...)...)
	}
	if len(keep) == 0 {
		return nil, nil
	}
	return &keep[0], keep[1:]
}

func (p *blockParser) addBatch(v string) {
	v = strings.TrimSpace(v)
	if v == "" {
		return
	}
	for _, b := range p.batches {
		if b == v {
			return
		}
	}
	p.batches = append(p.batches, v)
}

// valueAt reports whether line j can be the wrapped value of a label on line j-1.
func (p *blockParser) valueAt(j int) bool {
	if j >= len(p.lines) {
		return false
	}
	switch classify(p.lines[j]).kind {
	case kindBatch, kindAnchor, kindIgnored, kindReceived, kindUnit, kindDetail:
		return false
	}
	return !isTagLine(p.lines[j])
}

// quantityRunAt returns how many lines starting at j form one quantity
// (number, number+unit or unit+number), so a bare "Rec:" label can skip its value.
func (p *blockParser) quantityRunAt(j int) int {
	if j >= len(p.lines) {
		return 0
	}
	c := classify(p.lines[j])
	switch {
	case c.kind == kindQuantity && c.unit == "" && j+1 < len(p.lines) && isKnownUnit(p.lines[j+1]):
		return 2
	case c.kind == kindQuantity:
		return 1
	case c.kind == kindUnit && j+1 < len(p.lines) && reBareNumber.MatchString(p.lines[j+1]):
		return 2
	}
	return 0
}

// ParseBlock extracts one package record from b. seq is the block's 1-based
// position and scopes every diagnostic. ItemName holds the raw concatenated
// name text; callers run CleanItemName over it.
func ParseBlock(b Block, seq int) (entity.PackageRecord, []entity.Diagnostic) {
	rec := entity.PackageRecord{SequenceNumber: seq}
	var lines []string
	if len(b.Lines) > 0 {
		first := b.Lines[0]
		if loc := reTag.FindStringIndex(first); loc != nil {
			rec.PackageID = first[loc[0]:loc[1]]
			first = strings.Join(strings.Fields(first[:loc[0]]+" "+first[loc[1]:]), " ")
		}
		if first != "" {
			lines = append(lines, first)
		}
		lines = append(lines, b.Lines[1:]...)
	}

	p := &blockParser{lines: lines}
	p.run()
	shipped, extras := p.resolveQuantities()

	var diags []entity.Diagnostic
	rec.ItemName = strings.Join(p.names, " ")
	if rec.ItemName == "" {
		diags = append(diags, entity.PackageWarning(seq, "item name not found"))
	}

	if shipped == nil {
		rec.QuantityShipped = "0"
		diags = append(diags, entity.PackageWarning(seq, "quantity shipped not found; recorded as 0 (unverified)"))
	} else {
		rec.QuantityShipped = canonicalNumber(shipped.num)
		rec.QuantityVerified = true
		rec.UnitOfMeasure = entity.StrPtr(shipped.unit)
		for _, extra := range extras {
			diags = append(diags, entity.PackageWarning(seq, "additional quantity %s ignored",
				strings.TrimSpace(extra.num+" "+extra.unit)))
		}
	}

	if len(p.batches) == 0 {
		diags = append(diags, entity.PackageWarning(seq, "batch number not found"))
	} else {
		rec.BatchNumber = entity.StrPtr(strings.Join(p.batches, ", "))
	}

	if len(p.details) > 0 {
		rec.ItemDetails = entity.StrPtr(strings.Join(p.details, "; "))
	}
	return rec, diags
}
