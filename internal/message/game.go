package message

// Game setup and turn-flow messages. All are game-scoped.

// StartGame asks the server to begin play once enough seats are filled.
type StartGame struct {
	Game string
}

func (*StartGame) Tag() Tag          { return TagStartGame }
func (m *StartGame) GameName() string { return m.Game }
func (m *StartGame) encode(w *Writer) { w.WriteS(m.Game) }
func (m *StartGame) decode(r *Reader) { m.Game = r.ReadS() }

// SitDown claims a seat; broadcast by the server when a seat is taken.
type SitDown struct {
	Game     string
	Nickname string
	Seat     int
	Robot    bool
}

func (*SitDown) Tag() Tag          { return TagSitDown }
func (m *SitDown) GameName() string { return m.Game }
func (m *SitDown) encode(w *Writer) {
	w.WriteS(m.Game)
	w.WriteS(m.Nickname)
	w.WriteD(m.Seat)
	w.WriteB(m.Robot)
}
func (m *SitDown) decode(r *Reader) {
	m.Game = r.ReadS()
	m.Nickname = r.ReadS()
	m.Seat = r.ReadD()
	m.Robot = r.ReadB()
}

// ChangeFace sets a player's face icon.
type ChangeFace struct {
	Game string
	Seat int
	Face int
}

func (*ChangeFace) Tag() Tag          { return TagChangeFace }
func (m *ChangeFace) GameName() string { return m.Game }
func (m *ChangeFace) encode(w *Writer) {
	w.WriteS(m.Game)
	w.WriteD(m.Seat)
	w.WriteD(m.Face)
}
func (m *ChangeFace) decode(r *Reader) {
	m.Game = r.ReadS()
	m.Seat = r.ReadD()
	m.Face = r.ReadD()
}

// SetSeatLock sets all seat locks at once.
type SetSeatLock struct {
	Game  string
	Locks []SeatLockState
}

func (*SetSeatLock) Tag() Tag          { return TagSetSeatLock }
func (m *SetSeatLock) GameName() string { return m.Game }
func (m *SetSeatLock) encode(w *Writer) {
	w.WriteS(m.Game)
	w.WriteLocks(m.Locks)
}
func (m *SetSeatLock) decode(r *Reader) {
	m.Game = r.ReadS()
	m.Locks = r.ReadLocks()
}

// BoardLayout carries the classic fixed-size board: hex types, dice numbers
// and the robber hex, in board-internal coordinate order.
type BoardLayout struct {
	Game      string
	HexCoords []int
	HexTypes  []int
	DiceNums  []int
	RobberHex int
}

func (*BoardLayout) Tag() Tag          { return TagBoardLayout }
func (m *BoardLayout) GameName() string { return m.Game }
func (m *BoardLayout) encode(w *Writer) {
	w.WriteS(m.Game)
	w.WriteDList(m.HexCoords)
	w.WriteDList(m.HexTypes)
	w.WriteDList(m.DiceNums)
	w.WriteD(m.RobberHex)
}
func (m *BoardLayout) decode(r *Reader) {
	m.Game = r.ReadS()
	m.HexCoords = r.ReadDList()
	m.HexTypes = r.ReadDList()
	m.DiceNums = r.ReadDList()
	m.RobberHex = r.ReadD()
}

// BoardLayout2 is the sea-board layout: adds board size, ports, pirate,
// fog flags and per-part named sections for scenario extras.
type BoardLayout2 struct {
	Game       string
	Width      int
	Height     int
	HexCoords  []int
	HexTypes   []int
	DiceNums   []int
	RobberHex  int
	PirateHex  int
	PortTypes  []int
	PortNodes  []int // two nodes per port, flattened
	FogHexes   []int
	PartNames  []string // extra scenario sections, parallel to PartValues
	PartValues []string
}

func (*BoardLayout2) Tag() Tag          { return TagBoardLayout2 }
func (m *BoardLayout2) GameName() string { return m.Game }
func (m *BoardLayout2) encode(w *Writer) {
	w.WriteS(m.Game)
	w.WriteD(m.Width)
	w.WriteD(m.Height)
	w.WriteDList(m.HexCoords)
	w.WriteDList(m.HexTypes)
	w.WriteDList(m.DiceNums)
	w.WriteD(m.RobberHex)
	w.WriteD(m.PirateHex)
	w.WriteDList(m.PortTypes)
	w.WriteDList(m.PortNodes)
	w.WriteDList(m.FogHexes)
	w.WriteSList(m.PartNames)
	w.WriteSList(m.PartValues)
}
func (m *BoardLayout2) decode(r *Reader) {
	m.Game = r.ReadS()
	m.Width = r.ReadD()
	m.Height = r.ReadD()
	m.HexCoords = r.ReadDList()
	m.HexTypes = r.ReadDList()
	m.DiceNums = r.ReadDList()
	m.RobberHex = r.ReadD()
	m.PirateHex = r.ReadD()
	m.PortTypes = r.ReadDList()
	m.PortNodes = r.ReadDList()
	m.FogHexes = r.ReadDList()
	m.PartNames = r.ReadSList()
	m.PartValues = r.ReadSList()
}

// PotentialSettlements lists the nodes where a seat may currently place a
// settlement; seat -1 means "all seats" during initial join.
type PotentialSettlements struct {
	Game  string
	Seat  int
	Nodes []int
}

func (*PotentialSettlements) Tag() Tag          { return TagPotentialSettlements }
func (m *PotentialSettlements) GameName() string { return m.Game }
func (m *PotentialSettlements) encode(w *Writer) {
	w.WriteS(m.Game)
	w.WriteD(m.Seat)
	w.WriteDList(m.Nodes)
}
func (m *PotentialSettlements) decode(r *Reader) {
	m.Game = r.ReadS()
	m.Seat = r.ReadD()
	m.Nodes = r.ReadDList()
}

// PlayerElement adjusts or sets a single per-player counter.
type PlayerElement struct {
	Game    string
	Seat    int
	Action  int // ElemSet / ElemGain / ElemLose
	Element int
	Amount  int
}

func (*PlayerElement) Tag() Tag          { return TagPlayerElement }
func (m *PlayerElement) GameName() string { return m.Game }
func (m *PlayerElement) encode(w *Writer) {
	w.WriteS(m.Game)
	w.WriteD(m.Seat)
	w.WriteD(m.Action)
	w.WriteD(m.Element)
	w.WriteD(m.Amount)
}
func (m *PlayerElement) decode(r *Reader) {
	m.Game = r.ReadS()
	m.Seat = r.ReadD()
	m.Action = r.ReadD()
	m.Element = r.ReadD()
	m.Amount = r.ReadD()
}

// PlayerElements batches several counters in one message
// (clients >= VersionBatchElements; others get a PlayerElement sequence).
type PlayerElements struct {
	Game     string
	Seat     int
	Action   int
	Elements []int // element ids, parallel to Amounts
	Amounts  []int
}

func (*PlayerElements) Tag() Tag          { return TagPlayerElements }
func (m *PlayerElements) GameName() string { return m.Game }
func (m *PlayerElements) encode(w *Writer) {
	w.WriteS(m.Game)
	w.WriteD(m.Seat)
	w.WriteD(m.Action)
	w.WriteDList(m.Elements)
	w.WriteDList(m.Amounts)
}
func (m *PlayerElements) decode(r *Reader) {
	m.Game = r.ReadS()
	m.Seat = r.ReadD()
	m.Action = r.ReadD()
	m.Elements = r.ReadDList()
	m.Amounts = r.ReadDList()
}

// GameElements batches game-wide counters (dev card deck size etc).
type GameElements struct {
	Game     string
	Elements []int
	Amounts  []int
}

func (*GameElements) Tag() Tag          { return TagGameElements }
func (m *GameElements) GameName() string { return m.Game }
func (m *GameElements) encode(w *Writer) {
	w.WriteS(m.Game)
	w.WriteDList(m.Elements)
	w.WriteDList(m.Amounts)
}
func (m *GameElements) decode(r *Reader) {
	m.Game = r.ReadS()
	m.Elements = r.ReadDList()
	m.Amounts = r.ReadDList()
}

// ResourceCount reports a player's total hand size; used for clients older
// than VersionBatchElements after resource changes.
type ResourceCount struct {
	Game  string
	Seat  int
	Count int
}

func (*ResourceCount) Tag() Tag          { return TagResourceCount }
func (m *ResourceCount) GameName() string { return m.Game }
func (m *ResourceCount) encode(w *Writer) {
	w.WriteS(m.Game)
	w.WriteD(m.Seat)
	w.WriteD(m.Count)
}
func (m *ResourceCount) decode(r *Reader) {
	m.Game = r.ReadS()
	m.Seat = r.ReadD()
	m.Count = r.ReadD()
}

// Turn announces whose turn begins, with the state entered.
type Turn struct {
	Game  string
	Seat  int
	State int
}

func (*Turn) Tag() Tag          { return TagTurn }
func (m *Turn) GameName() string { return m.Game }
func (m *Turn) encode(w *Writer) {
	w.WriteS(m.Game)
	w.WriteD(m.Seat)
	w.WriteD(m.State)
}
func (m *Turn) decode(r *Reader) {
	m.Game = r.ReadS()
	m.Seat = r.ReadD()
	m.State = r.ReadD()
}

// SetTurn changes the current seat without starting a full turn
// (Special Building Phase rotation).
type SetTurn struct {
	Game string
	Seat int
}

func (*SetTurn) Tag() Tag          { return TagSetTurn }
func (m *SetTurn) GameName() string { return m.Game }
func (m *SetTurn) encode(w *Writer) {
	w.WriteS(m.Game)
	w.WriteD(m.Seat)
}
func (m *SetTurn) decode(r *Reader) {
	m.Game = r.ReadS()
	m.Seat = r.ReadD()
}

// FirstPlayer announces the randomly chosen starting seat.
type FirstPlayer struct {
	Game string
	Seat int
}

func (*FirstPlayer) Tag() Tag          { return TagFirstPlayer }
func (m *FirstPlayer) GameName() string { return m.Game }
func (m *FirstPlayer) encode(w *Writer) {
	w.WriteS(m.Game)
	w.WriteD(m.Seat)
}
func (m *FirstPlayer) decode(r *Reader) {
	m.Game = r.ReadS()
	m.Seat = r.ReadD()
}

// GameState announces a state-machine transition.
type GameState struct {
	Game  string
	State int
}

func (*GameState) Tag() Tag          { return TagGameState }
func (m *GameState) GameName() string { return m.Game }
func (m *GameState) encode(w *Writer) {
	w.WriteS(m.Game)
	w.WriteD(m.State)
}
func (m *GameState) decode(r *Reader) {
	m.Game = r.ReadS()
	m.State = r.ReadD()
}

// RollDicePrompt nudges the current player to roll or play a card.
type RollDicePrompt struct {
	Game string
	Seat int
}

func (*RollDicePrompt) Tag() Tag          { return TagRollDicePrompt }
func (m *RollDicePrompt) GameName() string { return m.Game }
func (m *RollDicePrompt) encode(w *Writer) {
	w.WriteS(m.Game)
	w.WriteD(m.Seat)
}
func (m *RollDicePrompt) decode(r *Reader) {
	m.Game = r.ReadS()
	m.Seat = r.ReadD()
}

// RollDice is the client's roll request.
type RollDice struct {
	Game string
}

func (*RollDice) Tag() Tag          { return TagRollDice }
func (m *RollDice) GameName() string { return m.Game }
func (m *RollDice) encode(w *Writer) { w.WriteS(m.Game) }
func (m *RollDice) decode(r *Reader) { m.Game = r.ReadS() }

// DiceResult broadcasts the rolled sum.
type DiceResult struct {
	Game string
	Sum  int
}

func (*DiceResult) Tag() Tag          { return TagDiceResult }
func (m *DiceResult) GameName() string { return m.Game }
func (m *DiceResult) encode(w *Writer) {
	w.WriteS(m.Game)
	w.WriteD(m.Sum)
}
func (m *DiceResult) decode(r *Reader) {
	m.Game = r.ReadS()
	m.Sum = r.ReadD()
}

// DiceResultResources bundles every gainer's exact gains and new hand total
// (clients >= VersionDiceResultResources; others get text + elements).
type DiceResultResources struct {
	Game   string
	Seats  []int
	Totals []int         // new hand totals, parallel to Seats
	Gains  []ResourceSet // parallel to Seats
}

func (*DiceResultResources) Tag() Tag          { return TagDiceResultResources }
func (m *DiceResultResources) GameName() string { return m.Game }
func (m *DiceResultResources) encode(w *Writer) {
	w.WriteS(m.Game)
	w.WriteDList(m.Seats)
	w.WriteDList(m.Totals)
	w.WriteH(uint16(len(m.Gains)))
	for _, g := range m.Gains {
		w.WriteRS(g)
	}
}
func (m *DiceResultResources) decode(r *Reader) {
	m.Game = r.ReadS()
	m.Seats = r.ReadDList()
	m.Totals = r.ReadDList()
	n := int(r.ReadH())
	if r.Err() != nil || n > r.Remaining()/24 {
		r.fail()
		return
	}
	m.Gains = make([]ResourceSet, n)
	for i := range m.Gains {
		m.Gains[i] = r.ReadRS()
	}
}

// EndTurn is the client's end-of-turn request.
type EndTurn struct {
	Game string
}

func (*EndTurn) Tag() Tag          { return TagEndTurn }
func (m *EndTurn) GameName() string { return m.Game }
func (m *EndTurn) encode(w *Writer) { w.WriteS(m.Game) }
func (m *EndTurn) decode(r *Reader) { m.Game = r.ReadS() }

func init() {
	register(TagStartGame, func() Message { return &StartGame{} })
	register(TagSitDown, func() Message { return &SitDown{} })
	register(TagChangeFace, func() Message { return &ChangeFace{} })
	register(TagSetSeatLock, func() Message { return &SetSeatLock{} })
	register(TagBoardLayout, func() Message { return &BoardLayout{} })
	register(TagBoardLayout2, func() Message { return &BoardLayout2{} })
	register(TagPotentialSettlements, func() Message { return &PotentialSettlements{} })
	register(TagPlayerElement, func() Message { return &PlayerElement{} })
	register(TagPlayerElements, func() Message { return &PlayerElements{} })
	register(TagGameElements, func() Message { return &GameElements{} })
	register(TagResourceCount, func() Message { return &ResourceCount{} })
	register(TagTurn, func() Message { return &Turn{} })
	register(TagSetTurn, func() Message { return &SetTurn{} })
	register(TagFirstPlayer, func() Message { return &FirstPlayer{} })
	register(TagGameState, func() Message { return &GameState{} })
	register(TagRollDicePrompt, func() Message { return &RollDicePrompt{} })
	register(TagRollDice, func() Message { return &RollDice{} })
	register(TagDiceResult, func() Message { return &DiceResult{} })
	register(TagDiceResultResources, func() Message { return &DiceResultResources{} })
	register(TagEndTurn, func() Message { return &EndTurn{} })
}
