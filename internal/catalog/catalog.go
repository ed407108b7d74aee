// Package catalog holds the versioned static tables of game options and
// scenarios. Both are built once at server start and read-only afterwards.
package catalog

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/gosettlers/server/internal/message"
)

// OptType is an option's value shape.
type OptType int

const (
	OptBool OptType = iota
	OptInt
	OptIntBool // bool gate plus an int value, "t10" on the wire
	OptEnum
	OptEnumBool
	OptStr
)

// Option flags.
const (
	FlagDropIfUnused = 1 << iota // omit from option strings when unset
	FlagInactiveHidden
	FlagInternal // server-assigned, never offered to clients
	FlagThirdParty
)

// Option is one declared game option.
type Option struct {
	Key          string
	Type         OptType
	MinVersion   int
	LastModified int
	DefBool      bool
	DefInt       int
	MinInt       int
	MaxInt       int
	DefStr       string
	EnumVals     []string
	Flags        int
	FeatureKey   string // client feature required to use this option
	Title        string
}

// Hidden options are not listed to clients.
func (o *Option) Hidden() bool {
	return o.Flags&(FlagInactiveHidden|FlagInternal) != 0
}

// Value is one chosen option value.
type Value struct {
	Opt  *Option
	Bool bool
	Int  int
	Str  string
}

// Values maps option key to chosen value. Only explicitly set options are
// present; readers fall back to declared defaults.
type Values map[string]*Value

// Catalog is the full option and scenario table.
type Catalog struct {
	opts  map[string]*Option
	scens map[string]*Scenario
}

// New builds the built-in table.
func New() *Catalog {
	c := &Catalog{
		opts:  make(map[string]*Option),
		scens: make(map[string]*Scenario),
	}
	for _, o := range builtinOptions() {
		c.opts[o.Key] = o
	}
	for _, s := range builtinScenarios() {
		c.scens[s.Key] = s
	}
	return c
}

func builtinOptions() []*Option {
	vm := message.VersionMin
	sea := message.VersionSeaBoards
	return []*Option{
		{Key: "PL", Type: OptInt, MinVersion: vm, LastModified: message.VersionGameOptions,
			DefInt: 4, MinInt: 2, MaxInt: 6, Title: "Maximum number of players"},
		{Key: "PLB", Type: OptBool, MinVersion: message.VersionGameOptions,
			FeatureKey: message.Feat6Player, Title: "Use 6-player board"},
		{Key: "PLP", Type: OptBool, MinVersion: message.VersionGameOptions,
			FeatureKey: message.Feat6Player, Title: "6-player board: Special Building Phase only with 5 or 6 players"},
		{Key: "SBL", Type: OptBool, MinVersion: sea,
			FeatureKey: message.FeatSeaBoard, Title: "Use sea board"},
		{Key: "RD", Type: OptBool, MinVersion: vm,
			Title: "Robber can't return to the desert"},
		{Key: "N7", Type: OptIntBool, MinVersion: vm,
			DefInt: 7, MinInt: 1, MaxInt: 999, Title: "Roll no 7s during first # rounds"},
		{Key: "N7C", Type: OptBool, MinVersion: vm,
			Title: "Roll no 7s until a city is built"},
		{Key: "BC", Type: OptIntBool, MinVersion: vm,
			DefBool: true, DefInt: 4, MinInt: 3, MaxInt: 9, Title: "Break up clumps of # or more same-type hexes/ports"},
		{Key: "NT", Type: OptBool, MinVersion: vm,
			Title: "No trading allowed between players"},
		{Key: "VP", Type: OptIntBool, MinVersion: vm,
			DefInt: 10, MinInt: 10, MaxInt: 20, Title: "Victory points to win"},
		{Key: "SC", Type: OptStr, MinVersion: sea,
			FeatureKey: message.FeatScenario, Flags: FlagDropIfUnused, Title: "Game scenario"},
		{Key: "_BHW", Type: OptInt, MinVersion: sea,
			MinInt: 0, MaxInt: 0xFFFF, Flags: FlagInternal | FlagDropIfUnused,
			Title: "Board height and width, encoded"},
		{Key: "_SC_SANY", Type: OptBool, MinVersion: sea, Flags: FlagDropIfUnused,
			Title: "Scenario: SVP for your first settlement on any island"},
		{Key: "_SC_SEAC", Type: OptBool, MinVersion: sea, Flags: FlagDropIfUnused,
			Title: "Scenario: 2 SVP for your first settlement on each island"},
		{Key: "_SC_FOG", Type: OptBool, MinVersion: sea, Flags: FlagDropIfUnused,
			Title: "Scenario: some hexes initially hidden by fog"},
		{Key: "_SC_0RVP", Type: OptBool, MinVersion: sea, Flags: FlagDropIfUnused,
			Title: "Scenario: no VP for longest road"},
		{Key: "_SC_3IP", Type: OptBool, MinVersion: sea, Flags: FlagDropIfUnused,
			Title: "Scenario: third initial settlement"},
		{Key: "_SC_CLVI", Type: OptBool, MinVersion: sea, Flags: FlagDropIfUnused,
			Title: "Scenario: cloth trade with neutral villages"},
		{Key: "_SC_PIRI", Type: OptBool, MinVersion: sea, Flags: FlagDropIfUnused,
			Title: "Scenario: pirate islands and fortresses"},
		{Key: "_SC_FTRI", Type: OptBool, MinVersion: sea, Flags: FlagDropIfUnused,
			Title: "Scenario: the forgotten tribe"},
		{Key: "_SC_WOND", Type: OptBool, MinVersion: sea, Flags: FlagDropIfUnused,
			Title: "Scenario: wonders"},
		{Key: "_PLAY_FO", Type: OptBool, MinVersion: vm,
			Flags: FlagInactiveHidden | FlagDropIfUnused, Title: "Hands fully observable"},
		{Key: "_PLAY_VPO", Type: OptBool, MinVersion: vm,
			Flags: FlagInactiveHidden | FlagDropIfUnused, Title: "VP of dev cards observable"},
	}
}

// Option looks up a declared option, or nil.
func (c *Catalog) Option(key string) *Option {
	return c.opts[key]
}

// Options returns all declared options sorted by key.
func (c *Catalog) Options() []*Option {
	list := make([]*Option, 0, len(c.opts))
	for _, o := range c.opts {
		list = append(list, o)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Key < list[j].Key })
	return list
}

// Defaults returns a fresh value set holding every non-internal option at
// its declared default.
func (c *Catalog) Defaults() Values {
	v := Values{}
	for _, o := range c.opts {
		if o.Flags&FlagInternal != 0 {
			continue
		}
		v[o.Key] = &Value{Opt: o, Bool: o.DefBool, Int: o.DefInt, Str: o.DefStr}
	}
	return v
}

// Bool reads a bool-typed option, falling back to the declared default.
func (v Values) Bool(key string) bool {
	if val, ok := v[key]; ok {
		return val.Bool
	}
	return false
}

// Int reads the int part of an option. IntBool options report their default
// int when the gate is off, matching how round counts are displayed.
func (v Values) Int(key string) int {
	if val, ok := v[key]; ok {
		return val.Int
	}
	return 0
}

// IntIfOn reads the int part only when the bool gate is set; 0 otherwise.
func (v Values) IntIfOn(key string) int {
	if val, ok := v[key]; ok && val.Bool {
		return val.Int
	}
	return 0
}

func (v Values) Str(key string) string {
	if val, ok := v[key]; ok {
		return val.Str
	}
	return ""
}

// Set stores a value for key, creating the entry if needed.
func (c *Catalog) Set(v Values, key string, val Value) error {
	o := c.opts[key]
	if o == nil {
		return fmt.Errorf("catalog: unknown option %q", key)
	}
	val.Opt = o
	if o.Type == OptInt || o.Type == OptIntBool {
		if val.Int < o.MinInt || val.Int > o.MaxInt {
			return fmt.Errorf("catalog: option %s value %d out of range [%d,%d]", key, val.Int, o.MinInt, o.MaxInt)
		}
	}
	v[key] = &val
	return nil
}

// Parse decodes an option string of the "PL=4,VP=t10,BC=t3" form. Unknown
// keys are skipped so newer clients' private options do not break older
// servers.
func (c *Catalog) Parse(s string) (Values, error) {
	v := Values{}
	if s == "" || s == "-" {
		return v, nil
	}
	for _, pair := range strings.Split(s, ",") {
		key, raw, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("catalog: malformed option pair %q", pair)
		}
		o := c.opts[key]
		if o == nil {
			continue
		}
		val := Value{Opt: o}
		switch o.Type {
		case OptBool:
			b, err := parseBool(raw)
			if err != nil {
				return nil, fmt.Errorf("catalog: option %s: %w", key, err)
			}
			val.Bool = b
		case OptInt:
			n, err := strconv.Atoi(raw)
			if err != nil {
				return nil, fmt.Errorf("catalog: option %s: bad int %q", key, raw)
			}
			val.Int = n
		case OptIntBool:
			if raw == "" {
				return nil, fmt.Errorf("catalog: option %s: empty value", key)
			}
			b, err := parseBool(raw[:1])
			if err != nil {
				return nil, fmt.Errorf("catalog: option %s: %w", key, err)
			}
			n, err := strconv.Atoi(raw[1:])
			if err != nil {
				return nil, fmt.Errorf("catalog: option %s: bad int %q", key, raw[1:])
			}
			val.Bool, val.Int = b, n
		case OptEnum, OptEnumBool, OptStr:
			val.Str = raw
		}
		if o.Type == OptInt || o.Type == OptIntBool {
			if val.Int < o.MinInt || val.Int > o.MaxInt {
				return nil, fmt.Errorf("catalog: option %s value %d out of range [%d,%d]", key, val.Int, o.MinInt, o.MaxInt)
			}
		}
		v[key] = &val
	}
	return v, nil
}

func parseBool(s string) (bool, error) {
	switch s {
	case "t", "T", "true":
		return true, nil
	case "f", "F", "false":
		return false, nil
	}
	return false, fmt.Errorf("bad bool %q", s)
}

// Format encodes values back into the wire option string. Options flagged
// DROP_IF_UNUSED are omitted while at their zero value. Keys are sorted so
// the output is stable.
func Format(v Values) string {
	keys := make([]string, 0, len(v))
	for k, val := range v {
		if val.Opt.Flags&FlagDropIfUnused != 0 && unused(val) {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		val := v[k]
		b.WriteString(k)
		b.WriteByte('=')
		switch val.Opt.Type {
		case OptBool:
			b.WriteString(boolCh(val.Bool))
		case OptInt:
			b.WriteString(strconv.Itoa(val.Int))
		case OptIntBool:
			b.WriteString(boolCh(val.Bool))
			b.WriteString(strconv.Itoa(val.Int))
		case OptEnum, OptEnumBool, OptStr:
			b.WriteString(val.Str)
		}
	}
	return b.String()
}

func unused(v *Value) bool {
	switch v.Opt.Type {
	case OptBool:
		return !v.Bool
	case OptInt:
		return v.Int == 0
	case OptIntBool:
		return !v.Bool
	default:
		return v.Str == ""
	}
}

func boolCh(b bool) string {
	if b {
		return "t"
	}
	return "f"
}

// EffectiveMinVersion computes the lowest client version that can join a
// game created with these values. The floor depends on chosen values, not
// only declarations: PL above 4 needs the 6-player protocol even though PL
// itself predates it, and a scenario raises the floor to its own minimum.
func (c *Catalog) EffectiveMinVersion(v Values) int {
	min := message.VersionMin
	for _, val := range v {
		if unused(val) && val.Opt.Flags&FlagDropIfUnused != 0 {
			continue
		}
		switch {
		case val.Opt.Type == OptBool && !val.Bool:
			continue // defaults don't constrain
		case val.Opt.Type == OptIntBool && !val.Bool:
			continue
		}
		if val.Opt.MinVersion > min {
			min = val.Opt.MinVersion
		}
	}
	if val, ok := v["PL"]; ok && val.Int > 4 {
		if message.VersionGameOptions > min {
			min = message.VersionGameOptions
		}
	}
	if key := v.Str("SC"); key != "" {
		if s := c.scens[key]; s != nil && s.MinVersion > min {
			min = s.MinVersion
		}
	}
	return min
}
