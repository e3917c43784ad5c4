// Package visibility models the client-side conditional display rules
// attached to descriptor fields. Rules mirror the host form runtime's
// hide-if expressions: they decide rendering only and are never a
// server-side validation gate.
package visibility

// Op is a hide-if comparison operator.
type Op string

const (
	// OpNotEqual hides the field while the referenced value differs from
	// the rule value.
	OpNotEqual Op = "!=="
	// OpEqual hides the field while the referenced value equals the rule
	// value.
	OpEqual Op = "==="
)

// Rule hides a field based on the current value of another field.
type Rule struct {
	Op    Op     `json:"op"`
	Field string `json:"field"`
	Value string `json:"value"`
}

// HiddenUnlessChecked returns the rule used by dependent controls that
// only apply when a checkbox is ticked.
func HiddenUnlessChecked(field string) *Rule {
	return &Rule{Op: OpNotEqual, Field: field, Value: "1"}
}

// Hidden evaluates the rule against the current form values.
func (r *Rule) Hidden(values map[string]string) bool {
	if r == nil {
		return false
	}
	current := values[r.Field]
	switch r.Op {
	case OpNotEqual:
		return current != r.Value
	case OpEqual:
		return current == r.Value
	default:
		return false
	}
}

// Evaluator decides whether a field should be displayed. The default
// implementation applies the field's own rule; hosts with richer widget
// state can substitute their own.
type Evaluator interface {
	Visible(field string, rule *Rule, values map[string]string) bool
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(field string, rule *Rule, values map[string]string) bool

// Visible delegates to the underlying function.
func (fn EvaluatorFunc) Visible(field string, rule *Rule, values map[string]string) bool {
	return fn(field, rule, values)
}

// Default evaluates rules directly against submitted values.
func Default() Evaluator {
	return EvaluatorFunc(func(_ string, rule *Rule, values map[string]string) bool {
		return !rule.Hidden(values)
	})
}
