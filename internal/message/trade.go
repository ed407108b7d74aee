package message

// Trade and development-card messages.

// MakeOffer proposes a trade to the seats in the offer's ToSeats mask.
type MakeOffer struct {
	Game  string
	Offer TradeOffer
}

func (*MakeOffer) Tag() Tag          { return TagMakeOffer }
func (m *MakeOffer) GameName() string { return m.Game }
func (m *MakeOffer) encode(w *Writer) {
	w.WriteS(m.Game)
	w.WriteOffer(m.Offer)
}
func (m *MakeOffer) decode(r *Reader) {
	m.Game = r.ReadS()
	m.Offer = r.ReadOffer()
}

// AcceptOffer commits a trade. In the broadcast form the server fills the
// resource sets so spectators can replicate both hands
// (clients >= VersionCompactTrades; older ones get element sequences).
type AcceptOffer struct {
	Game         string
	Accepting    int
	Offering     int
	ToOfferer    ResourceSet
	ToAccepter   ResourceSet
}

func (*AcceptOffer) Tag() Tag          { return TagAcceptOffer }
func (m *AcceptOffer) GameName() string { return m.Game }
func (m *AcceptOffer) encode(w *Writer) {
	w.WriteS(m.Game)
	w.WriteD(m.Accepting)
	w.WriteD(m.Offering)
	w.WriteRS(m.ToOfferer)
	w.WriteRS(m.ToAccepter)
}
func (m *AcceptOffer) decode(r *Reader) {
	m.Game = r.ReadS()
	m.Accepting = r.ReadD()
	m.Offering = r.ReadD()
	m.ToOfferer = r.ReadRS()
	m.ToAccepter = r.ReadRS()
}

// RejectOffer declines all offers made to this seat.
type RejectOffer struct {
	Game string
	Seat int
}

func (*RejectOffer) Tag() Tag          { return TagRejectOffer }
func (m *RejectOffer) GameName() string { return m.Game }
func (m *RejectOffer) encode(w *Writer) {
	w.WriteS(m.Game)
	w.WriteD(m.Seat)
}
func (m *RejectOffer) decode(r *Reader) {
	m.Game = r.ReadS()
	m.Seat = r.ReadD()
}

// ClearOffer retracts a seat's offer; seat -1 clears all seats at once
// (older clients receive one ClearOffer per seat instead).
type ClearOffer struct {
	Game string
	Seat int
}

func (*ClearOffer) Tag() Tag          { return TagClearOffer }
func (m *ClearOffer) GameName() string { return m.Game }
func (m *ClearOffer) encode(w *Writer) {
	w.WriteS(m.Game)
	w.WriteD(m.Seat)
}
func (m *ClearOffer) decode(r *Reader) {
	m.Game = r.ReadS()
	m.Seat = r.ReadD()
}

// ClearTradeMsg clears transient trade chatter in the client UI.
type ClearTradeMsg struct {
	Game string
	Seat int
}

func (*ClearTradeMsg) Tag() Tag          { return TagClearTradeMsg }
func (m *ClearTradeMsg) GameName() string { return m.Game }
func (m *ClearTradeMsg) encode(w *Writer) {
	w.WriteS(m.Game)
	w.WriteD(m.Seat)
}
func (m *ClearTradeMsg) decode(r *Reader) {
	m.Game = r.ReadS()
	m.Seat = r.ReadD()
}

// BankTrade trades with the bank or a port. Seat is filled by the server in
// the broadcast form.
type BankTrade struct {
	Game string
	Give ResourceSet
	Get  ResourceSet
	Seat int
}

func (*BankTrade) Tag() Tag          { return TagBankTrade }
func (m *BankTrade) GameName() string { return m.Game }
func (m *BankTrade) encode(w *Writer) {
	w.WriteS(m.Game)
	w.WriteRS(m.Give)
	w.WriteRS(m.Get)
	w.WriteD(m.Seat)
}
func (m *BankTrade) decode(r *Reader) {
	m.Game = r.ReadS()
	m.Give = r.ReadRS()
	m.Get = r.ReadRS()
	m.Seat = r.ReadD()
}

// BuyDevCardRequest asks to buy a development card.
type BuyDevCardRequest struct {
	Game string
}

func (*BuyDevCardRequest) Tag() Tag          { return TagBuyDevCardRequest }
func (m *BuyDevCardRequest) GameName() string { return m.Game }
func (m *BuyDevCardRequest) encode(w *Writer) { w.WriteS(m.Game) }
func (m *BuyDevCardRequest) decode(r *Reader) { m.Game = r.ReadS() }

// PlayDevCardRequest asks to play a card of the given type.
type PlayDevCardRequest struct {
	Game     string
	CardType int
}

func (*PlayDevCardRequest) Tag() Tag          { return TagPlayDevCardRequest }
func (m *PlayDevCardRequest) GameName() string { return m.Game }
func (m *PlayDevCardRequest) encode(w *Writer) {
	w.WriteS(m.Game)
	w.WriteD(m.CardType)
}
func (m *PlayDevCardRequest) decode(r *Reader) {
	m.Game = r.ReadS()
	m.CardType = r.ReadD()
}

// DevCardAction reports a draw/play/add. The card type is already mapped to
// the recipient's numbering by the broadcaster.
type DevCardAction struct {
	Game     string
	Seat     int
	Action   int // DevCardDraw / DevCardPlay / DevCardAddNew / DevCardAddOld / DevCardCannotPlay
	CardType int
}

func (*DevCardAction) Tag() Tag          { return TagDevCardAction }
func (m *DevCardAction) GameName() string { return m.Game }
func (m *DevCardAction) encode(w *Writer) {
	w.WriteS(m.Game)
	w.WriteD(m.Seat)
	w.WriteD(m.Action)
	w.WriteD(m.CardType)
}
func (m *DevCardAction) decode(r *Reader) {
	m.Game = r.ReadS()
	m.Seat = r.ReadD()
	m.Action = r.ReadD()
	m.CardType = r.ReadD()
}

// DevCardCount reports the remaining deck size (pre-batch-elements clients).
type DevCardCount struct {
	Game  string
	Count int
}

func (*DevCardCount) Tag() Tag          { return TagDevCardCount }
func (m *DevCardCount) GameName() string { return m.Game }
func (m *DevCardCount) encode(w *Writer) {
	w.WriteS(m.Game)
	w.WriteD(m.Count)
}
func (m *DevCardCount) decode(r *Reader) {
	m.Game = r.ReadS()
	m.Count = r.ReadD()
}

// SetPlayedDevCard sets or clears the played-this-turn flag.
type SetPlayedDevCard struct {
	Game   string
	Seat   int
	Played bool
}

func (*SetPlayedDevCard) Tag() Tag          { return TagSetPlayedDevCard }
func (m *SetPlayedDevCard) GameName() string { return m.Game }
func (m *SetPlayedDevCard) encode(w *Writer) {
	w.WriteS(m.Game)
	w.WriteD(m.Seat)
	w.WriteB(m.Played)
}
func (m *SetPlayedDevCard) decode(r *Reader) {
	m.Game = r.ReadS()
	m.Seat = r.ReadD()
	m.Played = r.ReadB()
}

// PickResources claims free resources: Year-of-Plenty picks or gold-hex
// picks, depending on game state.
type PickResources struct {
	Game string
	Set  ResourceSet
}

func (*PickResources) Tag() Tag          { return TagPickResources }
func (m *PickResources) GameName() string { return m.Game }
func (m *PickResources) encode(w *Writer) {
	w.WriteS(m.Game)
	w.WriteRS(m.Set)
}
func (m *PickResources) decode(r *Reader) {
	m.Game = r.ReadS()
	m.Set = r.ReadRS()
}

// PickResourceType resolves Monopoly with the chosen resource.
type PickResourceType struct {
	Game string
	Rsrc int
}

func (*PickResourceType) Tag() Tag          { return TagPickResourceType }
func (m *PickResourceType) GameName() string { return m.Game }
func (m *PickResourceType) encode(w *Writer) {
	w.WriteS(m.Game)
	w.WriteD(m.Rsrc)
}
func (m *PickResourceType) decode(r *Reader) {
	m.Game = r.ReadS()
	m.Rsrc = r.ReadD()
}

func init() {
	register(TagMakeOffer, func() Message { return &MakeOffer{} })
	register(TagAcceptOffer, func() Message { return &AcceptOffer{} })
	register(TagRejectOffer, func() Message { return &RejectOffer{} })
	register(TagClearOffer, func() Message { return &ClearOffer{} })
	register(TagClearTradeMsg, func() Message { return &ClearTradeMsg{} })
	register(TagBankTrade, func() Message { return &BankTrade{} })
	register(TagBuyDevCardRequest, func() Message { return &BuyDevCardRequest{} })
	register(TagPlayDevCardRequest, func() Message { return &PlayDevCardRequest{} })
	register(TagDevCardAction, func() Message { return &DevCardAction{} })
	register(TagDevCardCount, func() Message { return &DevCardCount{} })
	register(TagSetPlayedDevCard, func() Message { return &SetPlayedDevCard{} })
	register(TagPickResources, func() Message { return &PickResources{} })
	register(TagPickResourceType, func() Message { return &PickResourceType{} })
}
