package message

// Lobby and handshake messages. These are dispatched by the server core
// itself rather than a game handler.

// Version opens every session, in both directions.
type Version struct {
	Number   int    // e.g. 2700
	VerStr   string // "2.7.0"
	Build    string
	Feats    string // semicolon feature set, see ParseFeatures
	Locale   string // BCP-47-ish locale tag from the client, e.g. "en_US"
}

func (*Version) Tag() Tag { return TagVersion }
func (m *Version) encode(w *Writer) {
	w.WriteD(m.Number)
	w.WriteS(m.VerStr)
	w.WriteS(m.Build)
	w.WriteS(m.Feats)
	w.WriteS(m.Locale)
}
func (m *Version) decode(r *Reader) {
	m.Number = r.ReadD()
	m.VerStr = r.ReadS()
	m.Build = r.ReadS()
	m.Feats = r.ReadS()
	m.Locale = r.ReadS()
}

// StatusMessage reports auth/lobby outcomes; code 0 is success.
type StatusMessage struct {
	Code int
	Text string
}

func (*StatusMessage) Tag() Tag { return TagStatusMessage }
func (m *StatusMessage) encode(w *Writer) {
	w.WriteD(m.Code)
	w.WriteS(m.Text)
}
func (m *StatusMessage) decode(r *Reader) {
	m.Code = r.ReadD()
	m.Text = r.ReadS()
}

// RejectConnection precedes a server-initiated close on fatal auth errors.
type RejectConnection struct {
	Reason string
}

func (*RejectConnection) Tag() Tag { return TagRejectConnection }
func (m *RejectConnection) encode(w *Writer) { w.WriteS(m.Reason) }
func (m *RejectConnection) decode(r *Reader) { m.Reason = r.ReadS() }

// ServerPing is the keepalive; the client echoes it back.
type ServerPing struct {
	SleepTime int // ms until the next expected ping
}

func (*ServerPing) Tag() Tag { return TagServerPing }
func (m *ServerPing) encode(w *Writer) { w.WriteD(m.SleepTime) }
func (m *ServerPing) decode(r *Reader) { m.SleepTime = r.ReadD() }

// Games lists game names for clients below VersionGameOptions.
type Games struct {
	Names []string
}

func (*Games) Tag() Tag { return TagGames }
func (m *Games) encode(w *Writer) { w.WriteSList(m.Names) }
func (m *Games) decode(r *Reader) { m.Names = r.ReadSList() }

// GamesWithOptions pairs each game name with its encoded option string.
type GamesWithOptions struct {
	Names []string
	Opts  []string // parallel to Names
}

func (*GamesWithOptions) Tag() Tag { return TagGamesWithOptions }
func (m *GamesWithOptions) encode(w *Writer) {
	w.WriteSList(m.Names)
	w.WriteSList(m.Opts)
}
func (m *GamesWithOptions) decode(r *Reader) {
	m.Names = r.ReadSList()
	m.Opts = r.ReadSList()
}

// NewGame announces a created game to old clients.
type NewGame struct {
	Game string
}

func (*NewGame) Tag() Tag          { return TagNewGame }
func (m *NewGame) GameName() string { return m.Game }
func (m *NewGame) encode(w *Writer) { w.WriteS(m.Game) }
func (m *NewGame) decode(r *Reader) { m.Game = r.ReadS() }

// NewGameWithOptions announces a created game plus its option string and the
// minimum client version the options demand.
type NewGameWithOptions struct {
	Game       string
	Opts       string
	MinVersion int
}

func (*NewGameWithOptions) Tag() Tag          { return TagNewGameWithOptions }
func (m *NewGameWithOptions) GameName() string { return m.Game }
func (m *NewGameWithOptions) encode(w *Writer) {
	w.WriteS(m.Game)
	w.WriteS(m.Opts)
	w.WriteD(m.MinVersion)
}
func (m *NewGameWithOptions) decode(r *Reader) {
	m.Game = r.ReadS()
	m.Opts = r.ReadS()
	m.MinVersion = r.ReadD()
}

// NewGameWithOptionsRequest asks the server to create a game.
type NewGameWithOptionsRequest struct {
	Game string
	Opts string
}

func (*NewGameWithOptionsRequest) Tag() Tag          { return TagNewGameWithOptionsRequest }
func (m *NewGameWithOptionsRequest) GameName() string { return m.Game }
func (m *NewGameWithOptionsRequest) encode(w *Writer) {
	w.WriteS(m.Game)
	w.WriteS(m.Opts)
}
func (m *NewGameWithOptionsRequest) decode(r *Reader) {
	m.Game = r.ReadS()
	m.Opts = r.ReadS()
}

// DeleteGame removes a finished or abandoned game from lobby lists.
type DeleteGame struct {
	Game string
}

func (*DeleteGame) Tag() Tag          { return TagDeleteGame }
func (m *DeleteGame) GameName() string { return m.Game }
func (m *DeleteGame) encode(w *Writer) { w.WriteS(m.Game) }
func (m *DeleteGame) decode(r *Reader) { m.Game = r.ReadS() }

// JoinGame is sent by a client to join, and broadcast by the server when a
// member joins.
type JoinGame struct {
	Nickname string
	Password string // obsolete in requests once authenticated
	Host     string
	Game     string
}

func (*JoinGame) Tag() Tag          { return TagJoinGame }
func (m *JoinGame) GameName() string { return m.Game }
func (m *JoinGame) encode(w *Writer) {
	w.WriteS(m.Nickname)
	w.WriteS(m.Password)
	w.WriteS(m.Host)
	w.WriteS(m.Game)
}
func (m *JoinGame) decode(r *Reader) {
	m.Nickname = r.ReadS()
	m.Password = r.ReadS()
	m.Host = r.ReadS()
	m.Game = r.ReadS()
}

// JoinGameAuth tells the joining client it was admitted; board data follows.
type JoinGameAuth struct {
	Game       string
	BoardSized bool // true when a BOARDLAYOUT2 with explicit size follows
}

func (*JoinGameAuth) Tag() Tag          { return TagJoinGameAuth }
func (m *JoinGameAuth) GameName() string { return m.Game }
func (m *JoinGameAuth) encode(w *Writer) {
	w.WriteS(m.Game)
	w.WriteB(m.BoardSized)
}
func (m *JoinGameAuth) decode(r *Reader) {
	m.Game = r.ReadS()
	m.BoardSized = r.ReadB()
}

// LeaveGame is sent by a departing client and broadcast to remaining members.
type LeaveGame struct {
	Nickname string
	Host     string
	Game     string
}

func (*LeaveGame) Tag() Tag          { return TagLeaveGame }
func (m *LeaveGame) GameName() string { return m.Game }
func (m *LeaveGame) encode(w *Writer) {
	w.WriteS(m.Nickname)
	w.WriteS(m.Host)
	w.WriteS(m.Game)
}
func (m *LeaveGame) decode(r *Reader) {
	m.Nickname = r.ReadS()
	m.Host = r.ReadS()
	m.Game = r.ReadS()
}

// GameMembers lists everyone in the game; sent at the end of join data.
type GameMembers struct {
	Game    string
	Members []string
}

func (*GameMembers) Tag() Tag          { return TagGameMembers }
func (m *GameMembers) GameName() string { return m.Game }
func (m *GameMembers) encode(w *Writer) {
	w.WriteS(m.Game)
	w.WriteSList(m.Members)
}
func (m *GameMembers) decode(r *Reader) {
	m.Game = r.ReadS()
	m.Members = r.ReadSList()
}

// GameOptionGetDefaults carries "key=value" pairs: from the client, the
// options it already knows; from the server, defaults for the rest.
type GameOptionGetDefaults struct {
	Opts string
}

func (*GameOptionGetDefaults) Tag() Tag { return TagGameOptionGetDefaults }
func (m *GameOptionGetDefaults) encode(w *Writer) { w.WriteS(m.Opts) }
func (m *GameOptionGetDefaults) decode(r *Reader) { m.Opts = r.ReadS() }

// GameOptionGetInfos asks for declarations of the named options ("-" = all).
type GameOptionGetInfos struct {
	Keys []string
}

func (*GameOptionGetInfos) Tag() Tag { return TagGameOptionGetInfos }
func (m *GameOptionGetInfos) encode(w *Writer) { w.WriteSList(m.Keys) }
func (m *GameOptionGetInfos) decode(r *Reader) { m.Keys = r.ReadSList() }

// GameOptionInfo declares one option. The reply sequence ends with a
// terminator whose Key is "-".
type GameOptionInfo struct {
	Key          string
	Type         int // catalog.OptType ordinal
	MinVersion   int
	LastModified int
	DefaultBool  bool
	DefaultInt   int
	MinInt       int
	MaxInt       int
	DefaultStr   string
	EnumVals     []string
	Flags        int
	Title        string
}

func (*GameOptionInfo) Tag() Tag { return TagGameOptionInfo }
func (m *GameOptionInfo) encode(w *Writer) {
	w.WriteS(m.Key)
	w.WriteD(m.Type)
	w.WriteD(m.MinVersion)
	w.WriteD(m.LastModified)
	w.WriteB(m.DefaultBool)
	w.WriteD(m.DefaultInt)
	w.WriteD(m.MinInt)
	w.WriteD(m.MaxInt)
	w.WriteS(m.DefaultStr)
	w.WriteSList(m.EnumVals)
	w.WriteD(m.Flags)
	w.WriteS(m.Title)
}
func (m *GameOptionInfo) decode(r *Reader) {
	m.Key = r.ReadS()
	m.Type = r.ReadD()
	m.MinVersion = r.ReadD()
	m.LastModified = r.ReadD()
	m.DefaultBool = r.ReadB()
	m.DefaultInt = r.ReadD()
	m.MinInt = r.ReadD()
	m.MaxInt = r.ReadD()
	m.DefaultStr = r.ReadS()
	m.EnumVals = r.ReadSList()
	m.Flags = r.ReadD()
	m.Title = r.ReadS()
}

// ScenarioInfo declares one scenario; terminator Key "-" ends the sequence.
// From clients, Keys lists requested scenarios ("?" = all).
type ScenarioInfo struct {
	Keys       []string // request form
	Key        string   // reply form
	MinVersion int
	Opts       string
	Title      string
}

func (*ScenarioInfo) Tag() Tag { return TagScenarioInfo }
func (m *ScenarioInfo) encode(w *Writer) {
	w.WriteSList(m.Keys)
	w.WriteS(m.Key)
	w.WriteD(m.MinVersion)
	w.WriteS(m.Opts)
	w.WriteS(m.Title)
}
func (m *ScenarioInfo) decode(r *Reader) {
	m.Keys = r.ReadSList()
	m.Key = r.ReadS()
	m.MinVersion = r.ReadD()
	m.Opts = r.ReadS()
	m.Title = r.ReadS()
}

// AuthRequest authenticates the connection before any game join.
type AuthRequest struct {
	Role     string // "P" player, "U" user admin
	Nickname string
	Scheme   int // 1 = cleartext-over-transport, hashed at rest
	Password string
	Host     string
}

func (*AuthRequest) Tag() Tag { return TagAuthRequest }
func (m *AuthRequest) encode(w *Writer) {
	w.WriteS(m.Role)
	w.WriteS(m.Nickname)
	w.WriteD(m.Scheme)
	w.WriteS(m.Password)
	w.WriteS(m.Host)
}
func (m *AuthRequest) decode(r *Reader) {
	m.Role = r.ReadS()
	m.Nickname = r.ReadS()
	m.Scheme = r.ReadD()
	m.Password = r.ReadS()
	m.Host = r.ReadS()
}

func init() {
	register(TagVersion, func() Message { return &Version{} })
	register(TagStatusMessage, func() Message { return &StatusMessage{} })
	register(TagRejectConnection, func() Message { return &RejectConnection{} })
	register(TagServerPing, func() Message { return &ServerPing{} })
	register(TagGames, func() Message { return &Games{} })
	register(TagGamesWithOptions, func() Message { return &GamesWithOptions{} })
	register(TagNewGame, func() Message { return &NewGame{} })
	register(TagNewGameWithOptions, func() Message { return &NewGameWithOptions{} })
	register(TagNewGameWithOptionsRequest, func() Message { return &NewGameWithOptionsRequest{} })
	register(TagDeleteGame, func() Message { return &DeleteGame{} })
	register(TagJoinGame, func() Message { return &JoinGame{} })
	register(TagJoinGameAuth, func() Message { return &JoinGameAuth{} })
	register(TagLeaveGame, func() Message { return &LeaveGame{} })
	register(TagGameMembers, func() Message { return &GameMembers{} })
	register(TagGameOptionGetDefaults, func() Message { return &GameOptionGetDefaults{} })
	register(TagGameOptionGetInfos, func() Message { return &GameOptionGetInfos{} })
	register(TagGameOptionInfo, func() Message { return &GameOptionInfo{} })
	register(TagScenarioInfo, func() Message { return &ScenarioInfo{} })
	register(TagAuthRequest, func() Message { return &AuthRequest{} })
}
