package game

import (
	"fmt"
	"math/rand"
)

// BoardTemplate describes a board layout before randomization. Templates
// are loaded from the embedded data files; hexes typed "pool" draw their
// terrain from the shuffled pool, everything else is fixed.
type BoardTemplate struct {
	Key        string
	Title      string
	Sea        bool
	Width      int
	Height     int
	MinPlayers int
	MaxPlayers int

	Hexes    []TemplateHex
	Pool     map[string]int
	Tokens   []int
	Ports    []TemplatePort
	PortPool map[string]int

	FogHexes   []int
	Villages   []TemplateVillage
	Fortresses []int
	PirateHex  int
	RobberHex  int
}

type TemplateHex struct {
	Coord int
	Type  string // terrain name, or "pool"
}

type TemplatePort struct {
	Nodes []int
	Type  string // port name, or "pool"
}

type TemplateVillage struct {
	Node int
	Dice int
}

var terrainByName = map[string]int{
	"desert": HexDesert,
	"clay":   HexClay,
	"ore":    HexOre,
	"sheep":  HexSheep,
	"wheat":  HexWheat,
	"wood":   HexWood,
	"water":  HexWater,
	"gold":   HexGold,
}

var portByName = map[string]int{
	"any":   Port3to1,
	"clay":  PortClay,
	"ore":   PortOre,
	"sheep": PortSheep,
	"wheat": PortWheat,
	"wood":  PortWood,
}

// maxClumpAttempts bounds the break-clumps reshuffle; templates always
// admit a clump-free arrangement well within this.
const maxClumpAttempts = 100

// GenerateBoard randomizes a template into a playable board.
func GenerateBoard(tpl *BoardTemplate, opts Options, rng *rand.Rand) (*Board, error) {
	pool, err := expandPool(tpl.Pool, terrainByName)
	if err != nil {
		return nil, fmt.Errorf("board template %s: %w", tpl.Key, err)
	}

	var hexTypes map[int]int
	for attempt := 0; ; attempt++ {
		rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
		hexTypes = make(map[int]int, len(tpl.Hexes))
		next := 0
		for _, th := range tpl.Hexes {
			if th.Type == "pool" {
				if next >= len(pool) {
					return nil, fmt.Errorf("board template %s: pool smaller than pool-typed hexes", tpl.Key)
				}
				hexTypes[th.Coord] = pool[next]
				next++
				continue
			}
			t, ok := terrainByName[th.Type]
			if !ok {
				return nil, fmt.Errorf("board template %s: unknown terrain %q", tpl.Key, th.Type)
			}
			hexTypes[th.Coord] = t
		}
		if opts.BreakClumps == 0 || !hasClump(hexTypes, opts.BreakClumps) || attempt >= maxClumpAttempts {
			break
		}
	}

	b := newBoard(tpl.Sea, tpl.Width, tpl.Height, hexTypes)

	// Number tokens follow the template's hex listing order; deserts and
	// water carry no token.
	next := 0
	for _, th := range tpl.Hexes {
		t := hexTypes[th.Coord]
		if t == HexDesert || t == HexWater {
			continue
		}
		if next < len(tpl.Tokens) {
			b.DiceNum[th.Coord] = tpl.Tokens[next]
			next++
		}
	}

	if err := placePorts(b, tpl, rng); err != nil {
		return nil, err
	}

	// Robber starts on the template's hex, defaulting to the desert.
	b.Robber = tpl.RobberHex
	if b.Robber == 0 {
		for h, t := range hexTypes {
			if t == HexDesert {
				b.Robber = h
				break
			}
		}
	}
	if tpl.Sea {
		b.Pirate = tpl.PirateHex
		if b.Pirate == 0 {
			b.Pirate = -1
		}
	}

	if opts.FogHexes {
		for _, h := range tpl.FogHexes {
			b.Fog[h] = b.HexType[h]
			b.HexType[h] = HexFog
			if d, ok := b.DiceNum[h]; ok {
				b.FogDiceNum[h] = d
				delete(b.DiceNum, h)
			}
		}
	}
	if opts.ClothVillages {
		for _, tv := range tpl.Villages {
			b.Villages[tv.Node] = &Village{Node: tv.Node, DiceNum: tv.Dice, Cloth: 5}
			b.PutNodePiece(&Piece{Type: PieceVillage, Owner: -1, Coord: tv.Node})
		}
	}
	if opts.PirateFortresses {
		for i, n := range tpl.Fortresses {
			b.Fortresses[n] = &Fortress{Node: n, Owner: i, Strength: 3}
			b.PutNodePiece(&Piece{Type: PieceFortress, Owner: -1, Coord: n})
		}
	}
	return b, nil
}

func expandPool(pool map[string]int, names map[string]int) ([]int, error) {
	var out []int
	for name, count := range pool {
		t, ok := names[name]
		if !ok {
			return nil, fmt.Errorf("unknown pool entry %q", name)
		}
		for i := 0; i < count; i++ {
			out = append(out, t)
		}
	}
	return out, nil
}

func placePorts(b *Board, tpl *BoardTemplate, rng *rand.Rand) error {
	pool, err := expandPool(tpl.PortPool, portByName)
	if err != nil {
		return fmt.Errorf("board template %s: %w", tpl.Key, err)
	}
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	next := 0
	for _, tp := range tpl.Ports {
		if len(tp.Nodes) != 2 {
			return fmt.Errorf("board template %s: port needs exactly 2 nodes", tpl.Key)
		}
		port := Port{Nodes: [2]int{tp.Nodes[0], tp.Nodes[1]}}
		if tp.Type == "pool" {
			if next >= len(pool) {
				return fmt.Errorf("board template %s: port pool exhausted", tpl.Key)
			}
			port.Type = pool[next]
			next++
		} else {
			t, ok := portByName[tp.Type]
			if !ok {
				return fmt.Errorf("board template %s: unknown port %q", tpl.Key, tp.Type)
			}
			port.Type = t
		}
		b.Ports = append(b.Ports, port)
	}
	return nil
}

// hasClump reports whether any connected group of n or more same-type
// producing hexes exists.
func hasClump(hexTypes map[int]int, n int) bool {
	seen := map[int]bool{}
	for h, t := range hexTypes {
		if seen[h] || t == HexWater || t == HexDesert {
			continue
		}
		size := 0
		stack := []int{h}
		seen[h] = true
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			size++
			for _, off := range hexNeighborOffsets {
				nb := cur + off
				if !seen[nb] && hexTypes[nb] == t {
					if _, ok := hexTypes[nb]; ok {
						seen[nb] = true
						stack = append(stack, nb)
					}
				}
			}
		}
		if size >= n {
			return true
		}
	}
	return false
}
