package rules

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gnolang/tparse"
	"github.com/gnolang/tparse/template"
)

func accessLog() Config {
	return Config{
		Name: "access-log",
		Rules: []Rule{
			{
				Name:     "request",
				Template: "{} {} {} {}",
				Fields: []Field{
					{Name: "client", Type: "ip"},
					{Name: "method"},
					{Name: "path"},
					{Name: "status", Type: "int"},
				},
			},
			{
				Name:     "stats",
				Template: "stats {}: {:,:}",
				Fields: []Field{
					{Name: "name"},
					{Name: "values", Type: "float-list"},
				},
			},
		},
	}
}

func TestCompileErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{"no rules", Config{Name: "empty"}, ErrNoRules},
		{
			"unnamed rule",
			Config{Rules: []Rule{{Template: "{}", Fields: []Field{{Name: "a"}}}}},
			ErrRuleName,
		},
		{
			"duplicate rule",
			Config{Rules: []Rule{
				{Name: "r", Template: "{}", Fields: []Field{{Name: "a"}}},
				{Name: "r", Template: "{}", Fields: []Field{{Name: "a"}}},
			}},
			ErrRuleName,
		},
		{
			"bad template",
			Config{Rules: []Rule{{Name: "r", Template: "{}{}", Fields: []Field{{Name: "a"}, {Name: "b"}}}}},
			template.ErrAmbiguousAdjacency,
		},
		{
			"field count",
			Config{Rules: []Rule{{Name: "r", Template: "{} {}", Fields: []Field{{Name: "a"}}}}},
			tparse.ErrFieldCount,
		},
		{
			"unknown type",
			Config{Rules: []Rule{{Name: "r", Template: "{}", Fields: []Field{{Name: "a", Type: "complex"}}}}},
			ErrUnknownType,
		},
		{
			"list on placeholder",
			Config{Rules: []Rule{{Name: "r", Template: "{}", Fields: []Field{{Name: "a", Type: "list"}}}}},
			ErrFieldKind,
		},
		{
			"list on group with two captures per item",
			Config{Rules: []Rule{{Name: "pairs", Template: "{[{}={}]:&:}", Fields: []Field{{Name: "kv", Type: "list"}}}}},
			ErrFieldKind,
		},
		{
			"int-list on nested group",
			Config{Rules: []Rule{{Name: "rows", Template: "{[{:,:}]:;:}", Fields: []Field{{Name: "rows", Type: "int-list"}}}}},
			ErrFieldKind,
		},
		{
			"scalar on group",
			Config{Rules: []Rule{{Name: "r", Template: "{:,:}", Fields: []Field{{Name: "a", Type: "int"}}}}},
			ErrFieldKind,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Compile(tt.cfg, nil)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExtract(t *testing.T) {
	t.Parallel()

	logger, _ := zap.NewProduction()
	set, err := Compile(accessLog(), logger)
	require.NoError(t, err)
	assert.Equal(t, "access-log", set.Name())
	assert.Equal(t, []string{"request", "stats"}, set.Rules())

	rec, err := set.Extract("10.0.0.7 GET /index.html 200")
	require.NoError(t, err)
	assert.Equal(t, Record{
		Rule: "request",
		Fields: map[string]any{
			"client": netip.MustParseAddr("10.0.0.7"),
			"method": "GET",
			"path":   "/index.html",
			"status": int64(200),
		},
	}, rec)

	rec, err = set.Extract("stats latency: 1.5,2,0.25")
	require.NoError(t, err)
	assert.Equal(t, "stats", rec.Rule)
	assert.Equal(t, []float64{1.5, 2, 0.25}, rec.Fields["values"])
}

func TestExtractNoMatch(t *testing.T) {
	t.Parallel()

	set, err := Compile(accessLog(), nil)
	require.NoError(t, err)

	_, err = set.Extract("garbage")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoMatch)
	assert.ErrorIs(t, err, template.ErrLiteralNotFound)
	assert.Contains(t, err.Error(), `rule "request"`)

	// the request rule matches the shape but its status does not convert
	_, err = set.Extract("10.0.0.7 GET / OK")
	assert.ErrorIs(t, err, template.ErrConversionFailed)
}

func TestExtractListWithInnerTemplate(t *testing.T) {
	t.Parallel()

	cfg := Config{Rules: []Rule{{
		Name:     "ports",
		Template: "ports: {[:{}]:, :}",
		Fields:   []Field{{Name: "ports", Type: "int-list"}},
	}}}
	set, err := Compile(cfg, nil)
	require.NoError(t, err)

	rec, err := set.Extract("ports: :80, :443")
	require.NoError(t, err)
	assert.Equal(t, []int64{80, 443}, rec.Fields["ports"])
}

func TestTypes(t *testing.T) {
	t.Parallel()

	types := Types()
	assert.Contains(t, types, "int")
	assert.Contains(t, types, "float-list")
	assert.NotContains(t, types, "")
	assert.IsIncreasing(t, types)

	cfg := Config{Rules: []Rule{{
		Name:     "all",
		Template: "{} {} {} {} {} {} {}",
		Fields: []Field{
			{Name: "u", Type: "uint"},
			{Name: "b", Type: "bool"},
			{Name: "r", Type: "rune"},
			{Name: "d", Type: "duration"},
			{Name: "ap", Type: "addrport"},
			{Name: "p", Type: "prefix"},
			{Name: "s", Type: "string"},
		},
	}}}
	set, err := Compile(cfg, nil)
	require.NoError(t, err)

	rec, err := set.Extract("7 true x 90s 1.2.3.4:5 10.0.0.0/8 rest of line")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"u":  uint64(7),
		"b":  true,
		"r":  "x",
		"d":  "1m30s",
		"ap": netip.MustParseAddrPort("1.2.3.4:5"),
		"p":  netip.MustParsePrefix("10.0.0.0/8"),
		"s":  "rest of line",
	}, rec.Fields)
}
