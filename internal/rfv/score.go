package rfv

import (
	"os"
	"sort"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/segmetrics/rfv-cli/internal/model"
)

// DefaultAction is returned for any score without an explicit mapping,
// making the lookup total.
const DefaultAction = "no action defined for this segment"

// defaultActions maps RFV scores to recommended marketing/CRM actions.
// The table is deliberately partial; unmapped scores fall back to
// DefaultAction.
var defaultActions = map[string]string{
	"AAA": "Send discount coupons and free samples.",
	"AAB": "Send special offers to keep engagement up.",
	"AAC": "Send personalized content to build loyalty.",
	"ABA": "Run reactivation campaigns.",
	"ABB": "Watch for churn risk.",
	"ABC": "Offer incentives to increase purchase frequency.",
	"BAA": "Run satisfaction surveys.",
	"BAD": "Apply retention strategies.",
	"DDD": "Inactive customers, no planned actions.",
}

// ActionMap resolves an RFV score to a recommended action. Lookups never
// fail: unmapped scores resolve to DefaultAction.
type ActionMap struct {
	actions map[string]string
}

// NewActionMap builds an ActionMap from the built-in table with the given
// overrides merged on top. Overrides may replace built-in entries or add
// new ones; nil is fine.
func NewActionMap(overrides map[string]string) ActionMap {
	actions := make(map[string]string, len(defaultActions)+len(overrides))
	for score, action := range defaultActions {
		actions[score] = action
	}
	for score, action := range overrides {
		actions[score] = action
	}
	return ActionMap{actions: actions}
}

// LoadActionOverrides reads a yaml file mapping RFV scores to action
// strings, for use as NewActionMap overrides.
func LoadActionOverrides(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "rfv: read actions file %s", path)
	}
	var overrides map[string]string
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, eris.Wrapf(err, "rfv: parse actions file %s", path)
	}
	return overrides, nil
}

// Lookup returns the action for a score, or DefaultAction when unmapped.
func (m ActionMap) Lookup(score string) string {
	if action, ok := m.actions[score]; ok {
		return action
	}
	return DefaultAction
}

// ApplyActions fills the Action column of every row from the map.
func ApplyActions(rows []model.SegmentRow, m ActionMap) {
	for i := range rows {
		rows[i].Action = m.Lookup(rows[i].Score)
	}
}

// CountSegments aggregates rows by (score, action) pair. Results are
// ordered by descending count, ties broken by score.
func CountSegments(rows []model.SegmentRow) []model.SegmentCount {
	type key struct{ score, action string }
	counts := make(map[key]int)
	for _, row := range rows {
		counts[key{row.Score, row.Action}]++
	}

	out := make([]model.SegmentCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, model.SegmentCount{Score: k.score, Action: k.action, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Score < out[j].Score
	})
	return out
}
