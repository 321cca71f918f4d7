package rules

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/gnolang/tparse"
	"github.com/gnolang/tparse/template"
)

var (
	ErrNoRules     = errors.New("no rules defined")
	ErrRuleName    = errors.New("invalid rule name")
	ErrUnknownType = errors.New("unknown field type")
	ErrFieldKind   = errors.New("field type does not fit its capture")
	ErrNoMatch     = errors.New("no rule matches")
)

// Record is the typed result of one extraction.
type Record struct {
	Rule   string         `json:"rule"`
	Fields map[string]any `json:"fields"`
}

type compiledRule struct {
	name    string
	binding *tparse.Binding
	names   []string
	convs   []converter
}

// Set is a compiled rule file. It is safe for concurrent use.
type Set struct {
	name   string
	rules  []compiledRule
	logger *zap.Logger
}

// Compile checks every rule of cfg and compiles its template. A nil
// logger disables logging.
func Compile(cfg Config, logger *zap.Logger) (*Set, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(cfg.Rules) == 0 {
		return nil, ErrNoRules
	}

	set := &Set{name: cfg.Name, logger: logger}
	seen := make(map[string]bool, len(cfg.Rules))
	for i, rule := range cfg.Rules {
		if rule.Name == "" {
			return nil, fmt.Errorf("%w: rule %d has no name", ErrRuleName, i)
		}
		if seen[rule.Name] {
			return nil, fmt.Errorf("%w: %q is defined twice", ErrRuleName, rule.Name)
		}
		seen[rule.Name] = true

		cr, err := compileRule(rule)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", rule.Name, err)
		}
		set.rules = append(set.rules, cr)
	}

	logger.Debug("compiled rules",
		zap.String("config", cfg.Name),
		zap.Int("count", len(set.rules)))
	return set, nil
}

func compileRule(rule Rule) (compiledRule, error) {
	t, err := tparse.Compile(rule.Template)
	if err != nil {
		return compiledRule{}, err
	}

	names := make([]string, len(rule.Fields))
	for i, f := range rule.Fields {
		names[i] = f.Name
	}
	binding, err := tparse.BindTemplate(t, names...)
	if err != nil {
		return compiledRule{}, err
	}

	segs := captureSegments(t)
	convs := make([]converter, len(rule.Fields))
	for i, f := range rule.Fields {
		conv, ok := converters[f.Type]
		if !ok {
			return compiledRule{}, fmt.Errorf("%w %q for field %q", ErrUnknownType, f.Type, f.Name)
		}
		seg := segs[i]
		if conv.group != (seg.Kind == template.SegmentGroup) {
			return compiledRule{}, fmt.Errorf("%w: field %q has type %q", ErrFieldKind, f.Name, typeName(f.Type))
		}
		// list types convert each item as a single placeholder
		if conv.group && !singlePlaceholder(seg.Inner) {
			return compiledRule{}, fmt.Errorf("%w: field %q has type %q but its group items hold %d captures",
				ErrFieldKind, f.Name, typeName(f.Type), seg.Inner.NumCaptures())
		}
		convs[i] = conv
	}

	return compiledRule{name: rule.Name, binding: binding, names: names, convs: convs}, nil
}

// captureSegments returns the placeholder or group segment of each
// capture ordinal.
func captureSegments(t *template.Template) []template.Segment {
	out := make([]template.Segment, t.NumCaptures())
	for _, seg := range t.Segments() {
		if seg.Kind != template.SegmentLiteral {
			out[seg.Index] = seg
		}
	}
	return out
}

func singlePlaceholder(t *template.Template) bool {
	if t == nil || t.NumCaptures() != 1 {
		return false
	}
	for _, seg := range t.Segments() {
		if seg.Kind == template.SegmentGroup {
			return false
		}
	}
	return true
}

func typeName(t string) string {
	if t == "" {
		return "string"
	}
	return t
}

func (s *Set) Name() string { return s.name }

// Rules returns the rule names in evaluation order.
func (s *Set) Rules() []string {
	out := make([]string, len(s.rules))
	for i, r := range s.rules {
		out[i] = r.name
	}
	return out
}

// Extract runs the rules against line in order and returns the record of
// the first one that matches. When none matches, the error wraps
// ErrNoMatch and the failure of the first rule.
func (s *Set) Extract(line string) (Record, error) {
	var first error
	for _, r := range s.rules {
		rec, err := r.extract(line)
		if err == nil {
			return rec, nil
		}
		s.logger.Debug("rule did not match",
			zap.String("rule", r.name),
			zap.Error(err))
		if first == nil {
			first = fmt.Errorf("rule %q: %w", r.name, err)
		}
	}
	return Record{}, fmt.Errorf("%w: %w", ErrNoMatch, first)
}

func (r compiledRule) extract(line string) (Record, error) {
	rec, err := r.binding.Parse(line)
	if err != nil {
		return Record{}, err
	}

	values := rec.Values()
	fields := make(map[string]any, len(r.names))
	for i, name := range r.names {
		v, err := r.convs[i].fn(values, i)
		if err != nil {
			return Record{}, fmt.Errorf("field %q: %w", name, err)
		}
		fields[name] = v
	}
	return Record{Rule: r.name, Fields: fields}, nil
}
