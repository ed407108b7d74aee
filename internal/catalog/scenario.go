package catalog

import (
	"fmt"
	"sort"

	"github.com/gosettlers/server/internal/message"
)

// Scenario bundles a key, the option string it implies and a display title.
// The SC option carries the key; the game applies Opts on top of the
// creator's choices.
type Scenario struct {
	Key        string
	MinVersion int
	Opts       string
	Title      string
}

func builtinScenarios() []*Scenario {
	sea := message.VersionSeaBoards
	return []*Scenario{
		{Key: "SC_NSHO", MinVersion: sea,
			Opts:  "SBL=t,_SC_SANY=t",
			Title: "New Shores"},
		{Key: "SC_4ISL", MinVersion: sea,
			Opts:  "SBL=t,_SC_SEAC=t,_SC_0RVP=t",
			Title: "The Four Islands"},
		{Key: "SC_FOG", MinVersion: sea,
			Opts:  "SBL=t,_SC_FOG=t",
			Title: "Fog Islands"},
		{Key: "SC_TTD", MinVersion: sea,
			Opts:  "SBL=t,_SC_SEAC=t,_SC_0RVP=t",
			Title: "Through The Desert"},
		{Key: "SC_CLVI", MinVersion: sea,
			Opts:  "SBL=t,_SC_CLVI=t,_SC_3IP=t,_SC_0RVP=t,VP=t14",
			Title: "Cloth Trade with neutral villages"},
		{Key: "SC_PIRI", MinVersion: sea,
			Opts:  "SBL=t,_SC_PIRI=t,_SC_0RVP=t,VP=t10",
			Title: "Pirate Islands and Fortresses"},
		{Key: "SC_FTRI", MinVersion: sea,
			Opts:  "SBL=t,_SC_FTRI=t",
			Title: "The Forgotten Tribe"},
		{Key: "SC_WOND", MinVersion: sea,
			Opts:  "SBL=t,_SC_WOND=t,_SC_SANY=t,VP=t10",
			Title: "Wonders"},
	}
}

// Scenario looks up a scenario by key, or nil.
func (c *Catalog) Scenario(key string) *Scenario {
	return c.scens[key]
}

// Scenarios returns all scenarios sorted by key.
func (c *Catalog) Scenarios() []*Scenario {
	list := make([]*Scenario, 0, len(c.scens))
	for _, s := range c.scens {
		list = append(list, s)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Key < list[j].Key })
	return list
}

// AddScenario registers an extension scenario. Called during boot only,
// before the catalog is shared; duplicate keys are rejected so a script
// cannot shadow a built-in.
func (c *Catalog) AddScenario(s *Scenario) error {
	if s.Key == "" || s.Key == "-" || s.Key == "?" {
		return fmt.Errorf("catalog: invalid scenario key %q", s.Key)
	}
	if _, dup := c.scens[s.Key]; dup {
		return fmt.Errorf("catalog: scenario %s already registered", s.Key)
	}
	if s.MinVersion == 0 {
		s.MinVersion = message.VersionSeaBoards
	}
	if _, err := New().Parse(s.Opts); err != nil {
		return fmt.Errorf("catalog: scenario %s: %w", s.Key, err)
	}
	c.scens[s.Key] = s
	return nil
}

// ApplyScenario overlays the scenario's option string (chosen by SC) onto
// the creator's values. Scenario-implied options overwrite creator choices;
// a scenario's rules are not negotiable per game.
func (c *Catalog) ApplyScenario(v Values) error {
	key := v.Str("SC")
	if key == "" {
		return nil
	}
	s := c.scens[key]
	if s == nil {
		return fmt.Errorf("catalog: unknown scenario %q", key)
	}
	over, err := c.Parse(s.Opts)
	if err != nil {
		return err
	}
	for k, val := range over {
		v[k] = val
	}
	return nil
}
