package handler

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/gosettlers/server/internal/catalog"
	"github.com/gosettlers/server/internal/game"
	"github.com/gosettlers/server/internal/message"
	"github.com/gosettlers/server/internal/net"
)

// Build is stamped by the linker; the default marks source builds.
var Build = "dev"

// nameRx accepts nicknames and game names: leading alphanumeric, then up
// to 19 of a small safe set. "~" prefixes a practice game and is allowed
// only there.
var nameRx = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]{0,19}$`)

const authTimeout = 5 * time.Second

func validName(s string) bool {
	return nameRx.MatchString(s)
}

func validGameName(s string) bool {
	return nameRx.MatchString(strings.TrimPrefix(s, "~"))
}

// serverFeatures is what this build supports, advertised in the VERSION
// reply.
func serverFeatures() string {
	f := message.Features{
		message.Feat6Player:  "",
		message.FeatSeaBoard: "",
		message.FeatScenario: message.VersionString(message.VersionCurrent),
	}
	return f.String()
}

// handleVersion completes (or rejects) the handshake. Order of the rest
// of the lobby exchange is driven by the client: option defaults, option
// info, scenario info, then AUTHREQUEST.
func (h *Handler) handleVersion(c *net.Conn, m *message.Version) {
	reply := &message.Version{
		Number: message.VersionCurrent,
		VerStr: message.VersionString(message.VersionCurrent),
		Build:  Build,
		Feats:  serverFeatures(),
		Locale: "en_US",
	}
	if m.Number < message.VersionMin {
		c.Send(reply)
		c.Send(&message.StatusMessage{Code: message.StatusVersionTooLow,
			Text: "client version " + m.VerStr + " is no longer supported; need " +
				message.VersionString(message.VersionMin) + " or newer"})
		c.Send(&message.RejectConnection{Reason: "version too low"})
		c.Close()
		return
	}

	loc, err := language.Parse(strings.ReplaceAll(m.Locale, "_", "-"))
	if err != nil {
		loc = language.AmericanEnglish
	}
	c.SetHandshake(m.Number, message.ParseFeatures(m.Feats), loc)
	c.Send(reply)
	h.log.Debug("handshake complete",
		zap.Int("version", m.Number), zap.String("locale", m.Locale))
}

func (h *Handler) handleOptionDefaults(c *net.Conn) {
	c.Send(&message.GameOptionGetDefaults{Opts: catalog.Format(h.cat.Defaults())})
}

// handleOptionInfos streams the requested option declarations, closed by
// a terminator with key "-".
func (h *Handler) handleOptionInfos(c *net.Conn, m *message.GameOptionGetInfos) {
	all := len(m.Keys) == 0 || (len(m.Keys) == 1 && m.Keys[0] == "-")
	if all {
		for _, o := range h.cat.Options() {
			if o.Hidden() {
				continue
			}
			c.Send(optionInfo(o))
		}
	} else {
		for _, key := range m.Keys {
			if o := h.cat.Option(key); o != nil && !o.Hidden() {
				c.Send(optionInfo(o))
			}
		}
	}
	c.Send(&message.GameOptionInfo{Key: "-"})
}

func optionInfo(o *catalog.Option) *message.GameOptionInfo {
	return &message.GameOptionInfo{
		Key:          o.Key,
		Type:         int(o.Type),
		MinVersion:   o.MinVersion,
		LastModified: o.LastModified,
		DefaultBool:  o.DefBool,
		DefaultInt:   o.DefInt,
		MinInt:       o.MinInt,
		MaxInt:       o.MaxInt,
		DefaultStr:   o.DefStr,
		EnumVals:     o.EnumVals,
		Flags:        o.Flags,
		Title:        o.Title,
	}
}

// handleScenarioInfo streams scenario declarations; "?" in the request
// asks for all of them. The reply stream ends with key "-".
func (h *Handler) handleScenarioInfo(c *net.Conn, m *message.ScenarioInfo) {
	all := false
	for _, k := range m.Keys {
		if k == "?" {
			all = true
		}
	}
	if all || len(m.Keys) == 0 {
		for _, s := range h.cat.Scenarios() {
			c.Send(scenarioInfo(s))
		}
	} else {
		for _, key := range m.Keys {
			if s := h.cat.Scenario(key); s != nil {
				c.Send(scenarioInfo(s))
			}
		}
	}
	c.Send(&message.ScenarioInfo{Key: "-"})
}

func scenarioInfo(s *catalog.Scenario) *message.ScenarioInfo {
	return &message.ScenarioInfo{
		Key:        s.Key,
		MinVersion: s.MinVersion,
		Opts:       s.Opts,
		Title:      s.Title,
	}
}

// handleAuth resolves an AUTHREQUEST against the account store and, on
// success, latches the connection's identity and sends the game list.
func (h *Handler) handleAuth(c *net.Conn, m *message.AuthRequest) {
	if c.Authenticated() {
		c.Send(&message.StatusMessage{Code: message.StatusOK, Text: "already authenticated"})
		return
	}
	nick := m.Nickname
	if !validName(nick) {
		c.Send(&message.StatusMessage{Code: message.StatusNicknameFormat,
			Text: "nickname must be 1-20 letters, digits, '.', '_' or '-'"})
		return
	}
	if h.nicknameInUse(nick) {
		c.Send(&message.StatusMessage{Code: message.StatusNicknameTaken,
			Text: "someone is already connected as " + nick})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), authTimeout)
	defer cancel()
	ok, created, err := h.accounts.Authenticate(ctx, nick, m.Password)
	if err != nil {
		h.log.Error("auth backend failed", zap.String("nickname", nick), zap.Error(err))
		c.Send(&message.StatusMessage{Code: message.StatusNotAllowed,
			Text: "authentication is unavailable, try again"})
		return
	}
	if !ok {
		c.Send(&message.StatusMessage{Code: message.StatusPasswordWrong,
			Text: "wrong password for " + nick})
		return
	}

	c.SetAuthenticated(nick, nick)
	welcome := "Welcome to " + h.cfg.Server.Name + ", " + nick + "."
	if created {
		welcome += " Your nickname is now registered."
	}
	c.Send(&message.StatusMessage{Code: message.StatusOK, Text: welcome})
	h.sendGameList(c)
	h.log.Info("player authenticated", zap.String("nickname", nick), zap.Bool("created", created))
}

func (h *Handler) nicknameInUse(nick string) bool {
	if h.conns == nil {
		return false
	}
	used := false
	h.conns.ForEach(func(c *net.Conn) {
		if c.Authenticated() && c.Nickname() == nick {
			used = true
		}
	})
	return used
}

func (h *Handler) sendGameList(c *net.Conn) {
	h.mu.Lock()
	names := make([]string, 0, len(h.tables))
	opts := make([]string, 0, len(h.tables))
	for _, t := range h.tables {
		names = append(names, t.name)
		opts = append(opts, t.optsStr)
	}
	h.mu.Unlock()
	h.lobbySend(c, &message.GamesWithOptions{Names: names, Opts: opts})
}

// handleNewGame creates a table from an option string. The creator still
// joins with a separate JOINGAME, mirroring the client flow.
func (h *Handler) handleNewGame(c *net.Conn, name, optsStr string) {
	if !validGameName(name) {
		c.Send(&message.StatusMessage{Code: message.StatusNotAllowed,
			Text: "bad game name: " + name})
		return
	}
	vals, err := h.cat.Parse(optsStr)
	if err != nil {
		c.Send(&message.StatusMessage{Code: message.StatusNotAllowed, Text: err.Error()})
		return
	}
	// Unset options take their declared defaults so the stored option
	// string is complete.
	merged := h.cat.Defaults()
	for k, v := range vals {
		merged[k] = v
	}
	if err := h.cat.ApplyScenario(merged); err != nil {
		c.Send(&message.StatusMessage{Code: message.StatusNotAllowed, Text: err.Error()})
		return
	}
	minVer := h.cat.EffectiveMinVersion(merged)
	if c.Version() < minVer {
		c.Send(&message.StatusMessage{Code: message.StatusVersionTooLow,
			Text: "these options need client " + message.VersionString(minVer) + " or newer"})
		return
	}

	opts := gameOptions(merged)
	g := h.reg.Create(name, opts)
	if g == nil {
		c.Send(&message.StatusMessage{Code: message.StatusGameExists,
			Text: "game " + name + " already exists"})
		return
	}
	g.IsPractice = strings.HasPrefix(name, "~")

	t := &table{name: name, g: g, optsStr: catalog.Format(merged), minVer: minVer}
	h.mu.Lock()
	h.tables[name] = t
	h.mu.Unlock()

	h.log.Info("game created", zap.String("game", name),
		zap.String("opts", t.optsStr), zap.String("by", c.Nickname()))
	h.lobbyCast(&message.NewGameWithOptions{Game: name, Opts: t.optsStr, MinVersion: minVer})
}

// gameOptions projects catalog values onto the rules core's flat options.
func gameOptions(v catalog.Values) game.Options {
	return game.Options{
		MaxPlayers:           v.Int("PL"),
		SixPlayerBoard:       v.Bool("PLB"),
		SpecialBuildOnly5or6: v.Bool("PLP"),
		SeaBoard:             v.Bool("SBL"),
		RobberNoDesert:       v.Bool("RD"),
		NoSevensRounds:       v.IntIfOn("N7"),
		NoSevensUntilCity:    v.Bool("N7C"),
		BreakClumps:          v.IntIfOn("BC"),
		NoTrading:            v.Bool("NT"),
		VictoryPoints:        v.Int("VP"),
		Scenario:             v.Str("SC"),
		BoardHW:              v.Int("_BHW"),

		FogHexes:         v.Bool("_SC_FOG"),
		ClothVillages:    v.Bool("_SC_CLVI"),
		PirateFortresses: v.Bool("_SC_PIRI"),
		ForgottenTribe:   v.Bool("_SC_FTRI"),
		Wonders:          v.Bool("_SC_WOND"),
		ThirdPlacement:   v.Bool("_SC_3IP"),
		NoLongestRoadVP:  v.Bool("_SC_0RVP"),
		SVPAnyIsland:     v.Bool("_SC_SANY"),
		SVPEachIsland:    v.Bool("_SC_SEAC"),

		FullyObservable: v.Bool("_PLAY_FO"),
		VPObservable:    v.Bool("_PLAY_VPO"),
	}
}

// handleJoinGame admits the connection to a table and replays the full
// game picture to it.
func (h *Handler) handleJoinGame(c *net.Conn, m *message.JoinGame) {
	t := h.table(m.Game)
	if t == nil {
		c.Send(&message.StatusMessage{Code: message.StatusGameNotFound,
			Text: "no such game: " + m.Game})
		return
	}
	if c.Version() < t.minVer {
		c.Send(&message.StatusMessage{Code: message.StatusVersionTooLow,
			Text: "this game needs client " + message.VersionString(t.minVer) + " or newer"})
		return
	}

	g := h.gameOf(t)
	g.Lock()
	defer g.Unlock()
	if h.gameOf(t) != g {
		return
	}
	cst := &caster{h: h, t: t}
	h.sendJoinData(cst, c)
	h.addMember(t, c)
	cst.toAll(&message.JoinGame{Nickname: c.Nickname(), Game: t.name})
	h.log.Info("player joined game",
		zap.String("game", t.name), zap.String("nickname", c.Nickname()))
}

// sendJoinData replays the table state to one connection: auth, locks,
// board, element counters, membership and the state machine position.
// Caller holds the game lock.
func (h *Handler) sendJoinData(cst *caster, c *net.Conn) {
	g := cst.t.g
	name := cst.t.name

	cst.toConn(c, &message.JoinGameAuth{Game: name, BoardSized: g.Opts.SeaBoard})

	locks := make([]message.SeatLockState, len(g.SeatLocks))
	for i, l := range g.SeatLocks {
		locks[i] = message.SeatLockState(l)
	}
	cst.toConn(c, &message.SetSeatLock{Game: name, Locks: locks})

	if g.Board != nil {
		cst.toConn(c, boardLayoutMsg(name, g))
	}
	cst.toConn(c, &message.PotentialSettlements{Game: name, Seat: -1, Nodes: potentialNodes(g)})

	cst.toConn(c, &message.GameElements{Game: name,
		Elements: []int{
			message.GameElemCurrentPlayer, message.GameElemDevCardCount,
			message.GameElemRoundCount, message.GameElemLargestArmy,
			message.GameElemLongestRoad, message.GameElemUnjoinable,
		},
		Amounts: []int{
			g.CurrentPlayer, len(g.DevCardDeck),
			g.RoundCount, g.LargestArmyPlayer,
			g.LongestRoadPlayer, -1,
		}})

	for _, p := range g.Players {
		cst.toConn(c, seatElements(name, g, p))
	}

	members := h.memberNames(cst.t)
	joined := false
	for _, m := range members {
		if m == c.Nickname() {
			joined = true
			break
		}
	}
	if !joined {
		members = append(members, c.Nickname())
	}
	cst.toConn(c,
		&message.GameMembers{Game: name, Members: members},
		&message.GameState{Game: name, State: int(g.State)})
}

// seatElements is the SET batch describing one seat's public counters.
func seatElements(name string, g *game.Game, p *game.Player) *message.PlayerElements {
	elems := []int{message.ElemRoads, message.ElemSettlements, message.ElemCities}
	amts := []int{p.PiecesRemaining[game.PieceRoad],
		p.PiecesRemaining[game.PieceSettlement],
		p.PiecesRemaining[game.PieceCity]}
	if g.Opts.SeaBoard {
		elems = append(elems, message.ElemShips)
		amts = append(amts, p.PiecesRemaining[game.PieceShip])
	}
	elems = append(elems, message.ElemNumKnights, message.ElemResourceCount)
	amts = append(amts, p.PlayedKnights, p.Resources.Total())
	if g.Opts.ClothVillages {
		elems = append(elems, message.ElemScenarioCloth)
		amts = append(amts, p.Cloth)
	}
	if g.Opts.PirateFortresses {
		elems = append(elems, message.ElemScenarioWarships)
		amts = append(amts, p.Warships)
	}
	elems = append(elems, message.ElemNumUndosRemaining)
	amts = append(amts, p.UndosRemaining)
	return &message.PlayerElements{Game: name, Seat: p.Seat,
		Action: message.ElemSet, Elements: elems, Amounts: amts}
}

// potentialNodes is the all-seats settlement candidate list sent on join.
// During initial placement every seat shares the same candidates.
func potentialNodes(g *game.Game) []int {
	if g.Board == nil {
		return nil
	}
	return g.PotentialSettlements(g.CurrentPlayer)
}

// boardLayoutMsg renders the board in the newest encoding; send() falls
// back per-recipient. Classic boards keep the original BOARDLAYOUT.
func boardLayoutMsg(name string, g *game.Game) message.Message {
	b := g.Board
	coords := sortedHexes(b)
	types := make([]int, len(coords))
	nums := make([]int, len(coords))
	for i, hc := range coords {
		types[i] = b.HexType[hc]
		nums[i] = b.DiceNum[hc]
	}
	if !b.Sea {
		return &message.BoardLayout{Game: name,
			HexCoords: coords, HexTypes: types, DiceNums: nums, RobberHex: b.Robber}
	}

	var portTypes, portNodes []int
	for _, p := range b.Ports {
		portTypes = append(portTypes, p.Type)
		portNodes = append(portNodes, p.Nodes[0], p.Nodes[1])
	}
	var fog []int
	for hc := range b.Fog {
		fog = append(fog, hc)
	}
	sortInts(fog)

	m := &message.BoardLayout2{
		Game: name, Width: b.Width, Height: b.Height,
		HexCoords: coords, HexTypes: types, DiceNums: nums,
		RobberHex: b.Robber, PirateHex: b.Pirate,
		PortTypes: portTypes, PortNodes: portNodes, FogHexes: fog,
	}
	if len(b.Villages) > 0 {
		m.PartNames = append(m.PartNames, "CV")
		m.PartValues = append(m.PartValues, villagesPart(b))
	}
	if len(b.Fortresses) > 0 {
		m.PartNames = append(m.PartNames, "PF")
		m.PartValues = append(m.PartValues, fortressesPart(b))
	}
	return m
}

func sortedHexes(b *game.Board) []int {
	out := make([]int, 0, len(b.HexType))
	for hc := range b.HexType {
		out = append(out, hc)
	}
	sortInts(out)
	return out
}

func sortInts(vs []int) {
	for i := 1; i < len(vs); i++ {
		for j := i; j > 0 && vs[j] < vs[j-1]; j-- {
			vs[j], vs[j-1] = vs[j-1], vs[j]
		}
	}
}

// villagesPart encodes cloth villages as "node:dice:cloth" triples.
func villagesPart(b *game.Board) string {
	var nodes []int
	for n := range b.Villages {
		nodes = append(nodes, n)
	}
	sortInts(nodes)
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		v := b.Villages[n]
		parts = append(parts, strconv.Itoa(v.Node)+":"+strconv.Itoa(v.DiceNum)+":"+strconv.Itoa(v.Cloth))
	}
	return strings.Join(parts, ",")
}

// fortressesPart encodes pirate fortresses as "node:strength" pairs.
func fortressesPart(b *game.Board) string {
	var nodes []int
	for n := range b.Fortresses {
		nodes = append(nodes, n)
	}
	sortInts(nodes)
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		f := b.Fortresses[n]
		parts = append(parts, strconv.Itoa(f.Node)+":"+strconv.Itoa(f.Strength))
	}
	return strings.Join(parts, ",")
}

func (h *Handler) handleLeaveGame(c *net.Conn, name string) {
	if t := h.table(name); t != nil {
		h.leaveTable(c, t, true)
	}
}

// leaveTable removes the connection from the table, vacates its seat and
// destroys the table once the last member is gone.
func (h *Handler) leaveTable(c *net.Conn, t *table, broadcast bool) {
	g := h.gameOf(t)
	g.Lock()
	seat := g.StandUp(c.Nickname())
	remaining := h.removeMember(t, c)
	if broadcast && remaining > 0 {
		cst := &caster{h: h, t: t}
		cst.toAll(&message.LeaveGame{Nickname: c.Nickname(), Game: t.name})
		cst.toAll(&message.GameMembers{Game: t.name, Members: h.memberNames(t)})
		if seat >= 0 && g.Started && g.State != game.StateGameOver {
			cst.serverText(c.Nickname() + " left the game.")
		}
	}
	g.Unlock()

	if remaining == 0 {
		h.dropTable(t.name)
		h.log.Info("empty game removed", zap.String("game", t.name))
	}
}

// handleDeleteGame honors an explicit delete for games that never started
// or already finished.
func (h *Handler) handleDeleteGame(c *net.Conn, name string) {
	t := h.table(name)
	if t == nil {
		return
	}
	g := h.gameOf(t)
	g.Lock()
	deletable := !g.Started || g.State == game.StateGameOver
	g.Unlock()
	if !deletable {
		c.Send(&message.StatusMessage{Code: message.StatusNotAllowed,
			Text: "cannot delete a running game"})
		return
	}
	h.mu.Lock()
	members := make([]*net.Conn, len(t.members))
	copy(members, t.members)
	for _, mc := range members {
		if set := h.inGames[mc.ID]; set != nil {
			delete(set, t.name)
		}
	}
	t.members = nil
	h.mu.Unlock()
	h.dropTable(t.name)
	h.log.Info("game deleted", zap.String("game", name), zap.String("by", c.Nickname()))
}
