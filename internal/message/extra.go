package message

// Scenario extras, text and observability messages.

// RevealFogHex uncovers a fog hex on sea boards; the revealed terrain and
// dice number replace the fog placeholder.
type RevealFogHex struct {
	Game    string
	Hex     int
	HexType int
	DiceNum int
}

func (*RevealFogHex) Tag() Tag          { return TagRevealFogHex }
func (m *RevealFogHex) GameName() string { return m.Game }
func (m *RevealFogHex) encode(w *Writer) {
	w.WriteS(m.Game)
	w.WriteD(m.Hex)
	w.WriteD(m.HexType)
	w.WriteD(m.DiceNum)
}
func (m *RevealFogHex) decode(r *Reader) {
	m.Game = r.ReadS()
	m.Hex = r.ReadD()
	m.HexType = r.ReadD()
	m.DiceNum = r.ReadD()
}

// PieceValue updates a per-piece counter, such as a pirate fortress's
// remaining strength or a village's cloth count.
type PieceValue struct {
	Game  string
	Piece int
	Coord int
	Value int
	Extra int
}

func (*PieceValue) Tag() Tag          { return TagPieceValue }
func (m *PieceValue) GameName() string { return m.Game }
func (m *PieceValue) encode(w *Writer) {
	w.WriteS(m.Game)
	w.WriteD(m.Piece)
	w.WriteD(m.Coord)
	w.WriteD(m.Value)
	w.WriteD(m.Extra)
}
func (m *PieceValue) decode(r *Reader) {
	m.Game = r.ReadS()
	m.Piece = r.ReadD()
	m.Coord = r.ReadD()
	m.Value = r.ReadD()
	m.Extra = r.ReadD()
}

// InventoryItemAction moves a special item between a player's inventory and
// the board (wonder levels, trade ports in hand).
type InventoryItemAction struct {
	Game      string
	Seat      int
	Action    int
	ItemType  int
	GameCount int
	Coord     int
	Level     int
}

func (*InventoryItemAction) Tag() Tag          { return TagInventoryItemAction }
func (m *InventoryItemAction) GameName() string { return m.Game }
func (m *InventoryItemAction) encode(w *Writer) {
	w.WriteS(m.Game)
	w.WriteD(m.Seat)
	w.WriteD(m.Action)
	w.WriteD(m.ItemType)
	w.WriteD(m.GameCount)
	w.WriteD(m.Coord)
	w.WriteD(m.Level)
}
func (m *InventoryItemAction) decode(r *Reader) {
	m.Game = r.ReadS()
	m.Seat = r.ReadD()
	m.Action = r.ReadD()
	m.ItemType = r.ReadD()
	m.GameCount = r.ReadD()
	m.Coord = r.ReadD()
	m.Level = r.ReadD()
}

// SetSpecialItem sets one slot of a typed special-item list (game-wide when
// Seat is -1, otherwise per-player).
type SetSpecialItem struct {
	Game     string
	TypeKey  string
	Op       int
	Index    int
	Seat     int
	Coord    int
	Level    int
	StringValue string
}

func (*SetSpecialItem) Tag() Tag          { return TagSetSpecialItem }
func (m *SetSpecialItem) GameName() string { return m.Game }
func (m *SetSpecialItem) encode(w *Writer) {
	w.WriteS(m.Game)
	w.WriteS(m.TypeKey)
	w.WriteD(m.Op)
	w.WriteD(m.Index)
	w.WriteD(m.Seat)
	w.WriteD(m.Coord)
	w.WriteD(m.Level)
	w.WriteS(m.StringValue)
}
func (m *SetSpecialItem) decode(r *Reader) {
	m.Game = r.ReadS()
	m.TypeKey = r.ReadS()
	m.Op = r.ReadD()
	m.Index = r.ReadD()
	m.Seat = r.ReadD()
	m.Coord = r.ReadD()
	m.Level = r.ReadD()
	m.StringValue = r.ReadS()
}

// SimpleRequest is a generic client ask identified by a request id
// (attack pirate fortress, place port, query ship route).
type SimpleRequest struct {
	Game string
	Seat int
	Req  int
	V1   int
	V2   int
}

func (*SimpleRequest) Tag() Tag          { return TagSimpleRequest }
func (m *SimpleRequest) GameName() string { return m.Game }
func (m *SimpleRequest) encode(w *Writer) {
	w.WriteS(m.Game)
	w.WriteD(m.Seat)
	w.WriteD(m.Req)
	w.WriteD(m.V1)
	w.WriteD(m.V2)
}
func (m *SimpleRequest) decode(r *Reader) {
	m.Game = r.ReadS()
	m.Seat = r.ReadD()
	m.Req = r.ReadD()
	m.V1 = r.ReadD()
	m.V2 = r.ReadD()
}

// SimpleAction is a generic server notice identified by an action id.
type SimpleAction struct {
	Game string
	Seat int
	Act  int
	V1   int
	V2   int
}

func (*SimpleAction) Tag() Tag          { return TagSimpleAction }
func (m *SimpleAction) GameName() string { return m.Game }
func (m *SimpleAction) encode(w *Writer) {
	w.WriteS(m.Game)
	w.WriteD(m.Seat)
	w.WriteD(m.Act)
	w.WriteD(m.V1)
	w.WriteD(m.V2)
}
func (m *SimpleAction) decode(r *Reader) {
	m.Game = r.ReadS()
	m.Seat = r.ReadD()
	m.Act = r.ReadD()
	m.V1 = r.ReadD()
	m.V2 = r.ReadD()
}

// SetShipRouteClosed marks ship edges as part of a closed route; ships on a
// closed route can no longer move.
type SetShipRouteClosed struct {
	Game   string
	Closed bool
	Edges  []int
}

func (*SetShipRouteClosed) Tag() Tag          { return TagSetShipRouteClosed }
func (m *SetShipRouteClosed) GameName() string { return m.Game }
func (m *SetShipRouteClosed) encode(w *Writer) {
	w.WriteS(m.Game)
	w.WriteB(m.Closed)
	w.WriteDList(m.Edges)
}
func (m *SetShipRouteClosed) decode(r *Reader) {
	m.Game = r.ReadS()
	m.Closed = r.ReadB()
	m.Edges = r.ReadDList()
}

// SetLastAction tells a rejoining client which action is undoable.
type SetLastAction struct {
	Game   string
	Seat   int
	Action int
	V1     int
	V2     int
}

func (*SetLastAction) Tag() Tag          { return TagSetLastAction }
func (m *SetLastAction) GameName() string { return m.Game }
func (m *SetLastAction) encode(w *Writer) {
	w.WriteS(m.Game)
	w.WriteD(m.Seat)
	w.WriteD(m.Action)
	w.WriteD(m.V1)
	w.WriteD(m.V2)
}
func (m *SetLastAction) decode(r *Reader) {
	m.Game = r.ReadS()
	m.Seat = r.ReadD()
	m.Action = r.ReadD()
	m.V1 = r.ReadD()
	m.V2 = r.ReadD()
}

// GameServerText is server prose shown in the game's text area.
type GameServerText struct {
	Game string
	Text string
}

func (*GameServerText) Tag() Tag          { return TagGameServerText }
func (m *GameServerText) GameName() string { return m.Game }
func (m *GameServerText) encode(w *Writer) {
	w.WriteS(m.Game)
	w.WriteS(m.Text)
}
func (m *GameServerText) decode(r *Reader) {
	m.Game = r.ReadS()
	m.Text = r.ReadS()
}

// GameTextMsg is player chat within a game.
type GameTextMsg struct {
	Game     string
	Nickname string
	Text     string
}

func (*GameTextMsg) Tag() Tag          { return TagGameTextMsg }
func (m *GameTextMsg) GameName() string { return m.Game }
func (m *GameTextMsg) encode(w *Writer) {
	w.WriteS(m.Game)
	w.WriteS(m.Nickname)
	w.WriteS(m.Text)
}
func (m *GameTextMsg) decode(r *Reader) {
	m.Game = r.ReadS()
	m.Nickname = r.ReadS()
	m.Text = r.ReadS()
}

// BcastTextMsg is a server-wide announcement to every connection.
type BcastTextMsg struct {
	Text string
}

func (*BcastTextMsg) Tag() Tag          { return TagBcastTextMsg }
func (m *BcastTextMsg) encode(w *Writer) { w.WriteS(m.Text) }
func (m *BcastTextMsg) decode(r *Reader) { m.Text = r.ReadS() }

// GameStats summarizes a finished game: final scores and robot flags by seat.
type GameStats struct {
	Game   string
	Scores []int
	Robots []bool
}

func (*GameStats) Tag() Tag          { return TagGameStats }
func (m *GameStats) GameName() string { return m.Game }
func (m *GameStats) encode(w *Writer) {
	w.WriteS(m.Game)
	w.WriteDList(m.Scores)
	w.WriteH(uint16(len(m.Robots)))
	for _, b := range m.Robots {
		w.WriteB(b)
	}
}
func (m *GameStats) decode(r *Reader) {
	m.Game = r.ReadS()
	m.Scores = r.ReadDList()
	n := int(r.ReadH())
	if r.Err() != nil || n > r.Remaining() {
		r.fail()
		return
	}
	m.Robots = make([]bool, n)
	for i := range m.Robots {
		m.Robots[i] = r.ReadB()
	}
}

// PlayerStats gives the winner a resource-income recap at game over.
type PlayerStats struct {
	Game   string
	Kind   int
	Counts []int
}

func (*PlayerStats) Tag() Tag          { return TagPlayerStats }
func (m *PlayerStats) GameName() string { return m.Game }
func (m *PlayerStats) encode(w *Writer) {
	w.WriteS(m.Game)
	w.WriteD(m.Kind)
	w.WriteDList(m.Counts)
}
func (m *PlayerStats) decode(r *Reader) {
	m.Game = r.ReadS()
	m.Kind = r.ReadD()
	m.Counts = r.ReadDList()
}

// DeclinePlayerRequest rejects a request with a typed reason; older clients
// receive a GameServerText rendering instead.
type DeclinePlayerRequest struct {
	Game   string
	Reason int
	V1     int
	V2     int
	Text   string
}

func (*DeclinePlayerRequest) Tag() Tag          { return TagDeclinePlayerRequest }
func (m *DeclinePlayerRequest) GameName() string { return m.Game }
func (m *DeclinePlayerRequest) encode(w *Writer) {
	w.WriteS(m.Game)
	w.WriteD(m.Reason)
	w.WriteD(m.V1)
	w.WriteD(m.V2)
	w.WriteS(m.Text)
}
func (m *DeclinePlayerRequest) decode(r *Reader) {
	m.Game = r.ReadS()
	m.Reason = r.ReadD()
	m.V1 = r.ReadD()
	m.V2 = r.ReadD()
	m.Text = r.ReadS()
}

// ResetBoardRequest opens a vote to restart the game with the same seats.
type ResetBoardRequest struct {
	Game string
}

func (*ResetBoardRequest) Tag() Tag          { return TagResetBoardRequest }
func (m *ResetBoardRequest) GameName() string { return m.Game }
func (m *ResetBoardRequest) encode(w *Writer) { w.WriteS(m.Game) }
func (m *ResetBoardRequest) decode(r *Reader) { m.Game = r.ReadS() }

// ResetBoardVote carries one seat's yes/no on a pending reset vote.
type ResetBoardVote struct {
	Game string
	Seat int
	Yes  bool
}

func (*ResetBoardVote) Tag() Tag          { return TagResetBoardVote }
func (m *ResetBoardVote) GameName() string { return m.Game }
func (m *ResetBoardVote) encode(w *Writer) {
	w.WriteS(m.Game)
	w.WriteD(m.Seat)
	w.WriteB(m.Yes)
}
func (m *ResetBoardVote) decode(r *Reader) {
	m.Game = r.ReadS()
	m.Seat = r.ReadD()
	m.Yes = r.ReadB()
}

// ResetBoardAuth announces the vote outcome. On success the clients clear
// their board; the server then replays the join sequence with a fresh board.
type ResetBoardAuth struct {
	Game      string
	Requester int
	Approved  bool
}

func (*ResetBoardAuth) Tag() Tag          { return TagResetBoardAuth }
func (m *ResetBoardAuth) GameName() string { return m.Game }
func (m *ResetBoardAuth) encode(w *Writer) {
	w.WriteS(m.Game)
	w.WriteD(m.Requester)
	w.WriteB(m.Approved)
}
func (m *ResetBoardAuth) decode(r *Reader) {
	m.Game = r.ReadS()
	m.Requester = r.ReadD()
	m.Approved = r.ReadB()
}

func init() {
	register(TagRevealFogHex, func() Message { return &RevealFogHex{} })
	register(TagPieceValue, func() Message { return &PieceValue{} })
	register(TagInventoryItemAction, func() Message { return &InventoryItemAction{} })
	register(TagSetSpecialItem, func() Message { return &SetSpecialItem{} })
	register(TagSimpleRequest, func() Message { return &SimpleRequest{} })
	register(TagSimpleAction, func() Message { return &SimpleAction{} })
	register(TagSetShipRouteClosed, func() Message { return &SetShipRouteClosed{} })
	register(TagSetLastAction, func() Message { return &SetLastAction{} })
	register(TagGameServerText, func() Message { return &GameServerText{} })
	register(TagGameTextMsg, func() Message { return &GameTextMsg{} })
	register(TagBcastTextMsg, func() Message { return &BcastTextMsg{} })
	register(TagGameStats, func() Message { return &GameStats{} })
	register(TagPlayerStats, func() Message { return &PlayerStats{} })
	register(TagDeclinePlayerRequest, func() Message { return &DeclinePlayerRequest{} })
	register(TagResetBoardRequest, func() Message { return &ResetBoardRequest{} })
	register(TagResetBoardVote, func() Message { return &ResetBoardVote{} })
	register(TagResetBoardAuth, func() Message { return &ResetBoardAuth{} })
}
