package ast

type (
	// главные сущности
	FileID uint32
	ItemID uint32
	StmtID uint32
	ExprID uint32
	TypeID uint32
	// подсущности
	PayloadID uint32
	DeclID    uint32
	ParamID   uint32
	RecordID  uint32
	EnumID    uint32
)

const (
	NoFileID    FileID    = 0
	NoItemID    ItemID    = 0
	NoStmtID    StmtID    = 0
	NoExprID    ExprID    = 0
	NoTypeID    TypeID    = 0
	NoPayloadID PayloadID = 0
	NoDeclID    DeclID    = 0
	NoParamID   ParamID   = 0
	NoRecordID  RecordID  = 0
	NoEnumID    EnumID    = 0
)

func (id FileID) IsValid() bool    { return id != NoFileID }
func (id ItemID) IsValid() bool    { return id != NoItemID }
func (id StmtID) IsValid() bool    { return id != NoStmtID }
func (id ExprID) IsValid() bool    { return id != NoExprID }
func (id TypeID) IsValid() bool    { return id != NoTypeID }
func (id PayloadID) IsValid() bool { return id != NoPayloadID }
func (id DeclID) IsValid() bool    { return id != NoDeclID }
func (id ParamID) IsValid() bool   { return id != NoParamID }
func (id RecordID) IsValid() bool  { return id != NoRecordID }
func (id EnumID) IsValid() bool    { return id != NoEnumID }
