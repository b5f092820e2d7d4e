package generator

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/singularsity/synthd/internal/types"
)

// columnKind is the heuristic type assigned to a column from its name.
type columnKind int

const (
	kindID columnKind = iota
	kindName
	kindEmail
	kindAge
	kindMoney
	kindDate
	kindDefault
)

// classifyColumn maps a column name to its heuristic kind. First matching
// rule wins; matches are case-insensitive substring checks.
func classifyColumn(column string) columnKind {
	lower := strings.ToLower(column)
	switch {
	case strings.Contains(lower, "id"):
		return kindID
	case strings.Contains(lower, "name"):
		return kindName
	case strings.Contains(lower, "email"):
		return kindEmail
	case strings.Contains(lower, "age"):
		return kindAge
	case strings.Contains(lower, "amount"), strings.Contains(lower, "price"):
		return kindMoney
	case strings.Contains(lower, "date"), strings.Contains(lower, "time"):
		return kindDate
	default:
		return kindDefault
	}
}

// valueStyle is the per-provider shaping of default-kind values. An empty
// tag means the uppercased data domain is used instead.
type valueStyle struct {
	tag string
	pad int
}

// givenNames is the fixed round-robin list for name-like columns.
var givenNames = []string{"Alex", "Jordan", "Taylor", "Morgan", "Casey", "Riley", "Avery", "Quinn", "Sage", "River"}

// emailDomains returns the deterministic domain list for a data domain.
func emailDomains(dataDomain string) []string {
	lower := strings.ToLower(dataDomain)
	switch {
	case strings.Contains(lower, "business"):
		return []string{"company.com", "corp.net", "business.org"}
	case strings.Contains(lower, "education"):
		return []string{"university.edu", "school.edu", "college.edu"}
	default:
		return []string{"example.com", "test.org", "demo.net"}
	}
}

// engine synthesizes single column values and applies row-level
// post-processing. One engine serves one generation run; all randomness
// flows through its rand source so a fixed seed yields fixed output.
type engine struct {
	rng      *rand.Rand
	domain   string
	idPrefix string
	style    valueStyle
	domains  []string
	now      time.Time
}

func newEngine(rng *rand.Rand, dataDomain string, style valueStyle) *engine {
	prefix := strings.ToUpper(dataDomain)
	if runes := []rune(prefix); len(runes) > 3 {
		prefix = string(runes[:3])
	}
	return &engine{
		rng:      rng,
		domain:   dataDomain,
		idPrefix: prefix,
		style:    style,
		domains:  emailDomains(dataDomain),
		now:      time.Now(),
	}
}

// value produces the placeholder value for one (column, row index) pair.
// Identifier, name, and email values are pure functions of the index;
// age, money, and date values are randomized within fixed ranges.
func (e *engine) value(column string, idx int) any {
	switch classifyColumn(column) {
	case kindID:
		return fmt.Sprintf("%s_%08d", e.idPrefix, idx+1)
	case kindName:
		return givenNames[idx%len(givenNames)]
	case kindEmail:
		return fmt.Sprintf("user%06d@%s", idx+1, e.domains[idx%len(e.domains)])
	case kindAge:
		return 18 + e.rng.IntN(80)
	case kindMoney:
		return math.Round((e.rng.Float64()*10000+100)*100) / 100
	case kindDate:
		return e.now.AddDate(0, 0, -e.rng.IntN(365)).Format("2006-01-02")
	default:
		if e.style.tag != "" {
			return fmt.Sprintf("%s_%s_%0*d", e.style.tag, column, e.style.pad, idx+1)
		}
		return fmt.Sprintf("%s_%s_%06d", strings.ToUpper(e.domain), column, idx+1)
	}
}

// applyMissingData nulls one column of the row, chosen uniformly among the
// non-identifier columns. Identifier columns are excluded so the row keeps
// the unique key consumers join on; when every column is identifier-like no
// value is dropped.
func (e *engine) applyMissingData(rec types.Record, columns []string) {
	candidates := make([]string, 0, len(columns))
	for _, col := range columns {
		if classifyColumn(col) != kindID {
			candidates = append(candidates, col)
		}
	}
	if len(candidates) == 0 {
		return
	}
	rec[candidates[e.rng.IntN(len(candidates))]] = nil
}

// applyOutlier multiplies one randomly chosen numeric value by a factor in
// [2.0, 5.0). Non-numeric values are left untouched.
func (e *engine) applyOutlier(rec types.Record, columns []string) {
	col := columns[e.rng.IntN(len(columns))]
	factor := 2 + e.rng.Float64()*3
	switch v := rec[col].(type) {
	case float64:
		rec[col] = v * factor
	case int:
		rec[col] = float64(v) * factor
	}
}

// applyCorrelations couples the first name-like column to the row's first
// identifier-like column, so equal identifiers always carry equal names.
// Deterministic: no randomness is drawn.
func (e *engine) applyCorrelations(rec types.Record, columns []string) {
	var idCol, nameCol string
	for _, col := range columns {
		switch classifyColumn(col) {
		case kindID:
			if idCol == "" {
				idCol = col
			}
		case kindName:
			if nameCol == "" {
				nameCol = col
			}
		}
	}
	if idCol == "" || nameCol == "" {
		return
	}
	id, ok := rec[idCol].(string)
	if !ok {
		return
	}
	var sum int
	for _, b := range []byte(id) {
		sum += int(b)
	}
	rec[nameCol] = givenNames[sum%len(givenNames)]
}
