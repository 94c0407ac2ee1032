package model

// GroupID identifies a customer group. Valid groups are 0..Groups-1; NoGroup
// marks the absence of a group.
type GroupID int

// TableID identifies a table. Valid tables are 0..Tables-1; NoTable marks a
// group that holds no table.
type TableID int

const (
	NoGroup GroupID = -1
	NoTable TableID = -1
)
