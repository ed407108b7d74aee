package message

// Building, robber and robbery messages.

// BuildRequest asks to start building a piece type. Piece -1 requests the
// Special Building Phase on 6-player boards.
type BuildRequest struct {
	Game  string
	Piece int
}

func (*BuildRequest) Tag() Tag          { return TagBuildRequest }
func (m *BuildRequest) GameName() string { return m.Game }
func (m *BuildRequest) encode(w *Writer) {
	w.WriteS(m.Game)
	w.WriteD(m.Piece)
}
func (m *BuildRequest) decode(r *Reader) {
	m.Game = r.ReadS()
	m.Piece = r.ReadD()
}

// CancelBuildRequest abandons a pending placement; the cost is re-credited.
// Also sent server→bot as a deny hint.
type CancelBuildRequest struct {
	Game  string
	Piece int
}

func (*CancelBuildRequest) Tag() Tag          { return TagCancelBuildRequest }
func (m *CancelBuildRequest) GameName() string { return m.Game }
func (m *CancelBuildRequest) encode(w *Writer) {
	w.WriteS(m.Game)
	w.WriteD(m.Piece)
}
func (m *CancelBuildRequest) decode(r *Reader) {
	m.Game = r.ReadS()
	m.Piece = r.ReadD()
}

// PutPiece places a piece; broadcast on commit.
type PutPiece struct {
	Game  string
	Seat  int
	Piece int
	Coord int
}

func (*PutPiece) Tag() Tag          { return TagPutPiece }
func (m *PutPiece) GameName() string { return m.Game }
func (m *PutPiece) encode(w *Writer) {
	w.WriteS(m.Game)
	w.WriteD(m.Seat)
	w.WriteD(m.Piece)
	w.WriteD(m.Coord)
}
func (m *PutPiece) decode(r *Reader) {
	m.Game = r.ReadS()
	m.Seat = r.ReadD()
	m.Piece = r.ReadD()
	m.Coord = r.ReadD()
}

// MovePiece relocates a ship along an open route.
type MovePiece struct {
	Game      string
	Seat      int
	Piece     int
	FromCoord int
	ToCoord   int
}

func (*MovePiece) Tag() Tag          { return TagMovePiece }
func (m *MovePiece) GameName() string { return m.Game }
func (m *MovePiece) encode(w *Writer) {
	w.WriteS(m.Game)
	w.WriteD(m.Seat)
	w.WriteD(m.Piece)
	w.WriteD(m.FromCoord)
	w.WriteD(m.ToCoord)
}
func (m *MovePiece) decode(r *Reader) {
	m.Game = r.ReadS()
	m.Seat = r.ReadD()
	m.Piece = r.ReadD()
	m.FromCoord = r.ReadD()
	m.ToCoord = r.ReadD()
}

// UndoPutPiece reverses the last placement (or ship move when
// FromCoord != 0).
type UndoPutPiece struct {
	Game      string
	Seat      int
	Piece     int
	Coord     int
	FromCoord int
}

func (*UndoPutPiece) Tag() Tag          { return TagUndoPutPiece }
func (m *UndoPutPiece) GameName() string { return m.Game }
func (m *UndoPutPiece) encode(w *Writer) {
	w.WriteS(m.Game)
	w.WriteD(m.Seat)
	w.WriteD(m.Piece)
	w.WriteD(m.Coord)
	w.WriteD(m.FromCoord)
}
func (m *UndoPutPiece) decode(r *Reader) {
	m.Game = r.ReadS()
	m.Seat = r.ReadD()
	m.Piece = r.ReadD()
	m.Coord = r.ReadD()
	m.FromCoord = r.ReadD()
}

// RemovePiece removes a piece from the board (pirate fortress defeat).
type RemovePiece struct {
	Game  string
	Seat  int
	Piece int
	Coord int
}

func (*RemovePiece) Tag() Tag          { return TagRemovePiece }
func (m *RemovePiece) GameName() string { return m.Game }
func (m *RemovePiece) encode(w *Writer) {
	w.WriteS(m.Game)
	w.WriteD(m.Seat)
	w.WriteD(m.Piece)
	w.WriteD(m.Coord)
}
func (m *RemovePiece) decode(r *Reader) {
	m.Game = r.ReadS()
	m.Seat = r.ReadD()
	m.Piece = r.ReadD()
	m.Coord = r.ReadD()
}

// DebugFreePlace toggles (Coord==0) or uses free placement in practice games.
type DebugFreePlace struct {
	Game  string
	Seat  int
	On    bool
	Piece int
	Coord int
}

func (*DebugFreePlace) Tag() Tag          { return TagDebugFreePlace }
func (m *DebugFreePlace) GameName() string { return m.Game }
func (m *DebugFreePlace) encode(w *Writer) {
	w.WriteS(m.Game)
	w.WriteD(m.Seat)
	w.WriteB(m.On)
	w.WriteD(m.Piece)
	w.WriteD(m.Coord)
}
func (m *DebugFreePlace) decode(r *Reader) {
	m.Game = r.ReadS()
	m.Seat = r.ReadD()
	m.On = r.ReadB()
	m.Piece = r.ReadD()
	m.Coord = r.ReadD()
}

// MoveRobber moves the robber (positive hex) or pirate (negated hex).
type MoveRobber struct {
	Game string
	Seat int
	Hex  int
}

func (*MoveRobber) Tag() Tag          { return TagMoveRobber }
func (m *MoveRobber) GameName() string { return m.Game }
func (m *MoveRobber) encode(w *Writer) {
	w.WriteS(m.Game)
	w.WriteD(m.Seat)
	w.WriteD(m.Hex)
}
func (m *MoveRobber) decode(r *Reader) {
	m.Game = r.ReadS()
	m.Seat = r.ReadD()
	m.Hex = r.ReadD()
}

// ChoosePlayerRequest lists robbable victims; the client answers with
// ChoosePlayer.
type ChoosePlayerRequest struct {
	Game    string
	Choices []bool // indexed by seat; true = robbable
	CanRobNone bool // scenario: may decline (pirate fleet)
}

func (*ChoosePlayerRequest) Tag() Tag          { return TagChoosePlayerRequest }
func (m *ChoosePlayerRequest) GameName() string { return m.Game }
func (m *ChoosePlayerRequest) encode(w *Writer) {
	w.WriteS(m.Game)
	w.WriteH(uint16(len(m.Choices)))
	for _, c := range m.Choices {
		w.WriteB(c)
	}
	w.WriteB(m.CanRobNone)
}
func (m *ChoosePlayerRequest) decode(r *Reader) {
	m.Game = r.ReadS()
	n := int(r.ReadH())
	if r.Err() != nil || n > r.Remaining() {
		r.fail()
		return
	}
	m.Choices = make([]bool, n)
	for i := range m.Choices {
		m.Choices[i] = r.ReadB()
	}
	m.CanRobNone = r.ReadB()
}

// ChoosePlayer picks a robbery victim, or answers the cloth-or-resource
// question (victim seat negated-minus-one means "rob cloth").
type ChoosePlayer struct {
	Game string
	Seat int
}

func (*ChoosePlayer) Tag() Tag          { return TagChoosePlayer }
func (m *ChoosePlayer) GameName() string { return m.Game }
func (m *ChoosePlayer) encode(w *Writer) {
	w.WriteS(m.Game)
	w.WriteD(m.Seat)
}
func (m *ChoosePlayer) decode(r *Reader) {
	m.Game = r.ReadS()
	m.Seat = r.ReadD()
}

// ReportRobbery reports a completed steal. Thief and victim receive the
// exact resource; everyone else receives UnknownResource.
type ReportRobbery struct {
	Game    string
	Perp    int
	Victim  int
	Kind    int // RobResource / RobCloth
	Rsrc    int
	Amount  int
}

func (*ReportRobbery) Tag() Tag          { return TagReportRobbery }
func (m *ReportRobbery) GameName() string { return m.Game }
func (m *ReportRobbery) encode(w *Writer) {
	w.WriteS(m.Game)
	w.WriteD(m.Perp)
	w.WriteD(m.Victim)
	w.WriteD(m.Kind)
	w.WriteD(m.Rsrc)
	w.WriteD(m.Amount)
}
func (m *ReportRobbery) decode(r *Reader) {
	m.Game = r.ReadS()
	m.Perp = r.ReadD()
	m.Victim = r.ReadD()
	m.Kind = r.ReadD()
	m.Rsrc = r.ReadD()
	m.Amount = r.ReadD()
}

// DiscardRequest tells one player how many resources to discard after a 7.
type DiscardRequest struct {
	Game  string
	Count int
}

func (*DiscardRequest) Tag() Tag          { return TagDiscardRequest }
func (m *DiscardRequest) GameName() string { return m.Game }
func (m *DiscardRequest) encode(w *Writer) {
	w.WriteS(m.Game)
	w.WriteD(m.Count)
}
func (m *DiscardRequest) decode(r *Reader) {
	m.Game = r.ReadS()
	m.Count = r.ReadD()
}

// Discard is the player's chosen discard set.
type Discard struct {
	Game string
	Set  ResourceSet
}

func (*Discard) Tag() Tag          { return TagDiscard }
func (m *Discard) GameName() string { return m.Game }
func (m *Discard) encode(w *Writer) {
	w.WriteS(m.Game)
	w.WriteRS(m.Set)
}
func (m *Discard) decode(r *Reader) {
	m.Game = r.ReadS()
	m.Set = r.ReadRS()
}

func init() {
	register(TagBuildRequest, func() Message { return &BuildRequest{} })
	register(TagCancelBuildRequest, func() Message { return &CancelBuildRequest{} })
	register(TagPutPiece, func() Message { return &PutPiece{} })
	register(TagMovePiece, func() Message { return &MovePiece{} })
	register(TagUndoPutPiece, func() Message { return &UndoPutPiece{} })
	register(TagRemovePiece, func() Message { return &RemovePiece{} })
	register(TagDebugFreePlace, func() Message { return &DebugFreePlace{} })
	register(TagMoveRobber, func() Message { return &MoveRobber{} })
	register(TagChoosePlayerRequest, func() Message { return &ChoosePlayerRequest{} })
	register(TagChoosePlayer, func() Message { return &ChoosePlayer{} })
	register(TagReportRobbery, func() Message { return &ReportRobbery{} })
	register(TagDiscardRequest, func() Message { return &DiscardRequest{} })
	register(TagDiscard, func() Message { return &Discard{} })
}
