package world

import (
	"github.com/diegesis/engine/internal/core/ecs"
	"github.com/diegesis/engine/internal/core/types"
)

// ActionType is the wire tag of an action record.
type ActionType string

const (
	ActionTickTime        ActionType = "TICK_TIME"
	ActionMovePlayer      ActionType = "MOVE_PLAYER"
	ActionTeleportPlayer  ActionType = "TELEPORT_PLAYER"
	ActionAddEntity       ActionType = "ADD_ENTITY"
	ActionUpdateEntity    ActionType = "UPDATE_ENTITY"
	ActionRemoveEntity    ActionType = "REMOVE_ENTITY"
	ActionMoveEntity      ActionType = "MOVE_ENTITY"
	ActionSetVariable     ActionType = "SET_VARIABLE"
	ActionAddMessage      ActionType = "ADD_MESSAGE"
	ActionSetRoomPosition ActionType = "SET_ROOM_POSITION"
	ActionLoadWorld       ActionType = "LOAD_WORLD"
	ActionLoadGame        ActionType = "LOAD_GAME"
)

// MoveCost is the tick cost of walking through an exit.
const MoveCost = 10

// Action is a member of the closed mutation vocabulary accepted by Reduce.
type Action interface {
	Type() ActionType
}

type AdvanceTime struct {
	Ticks int64 `json:"ticks"`
}

type MovePlayer struct {
	ExitEntityID types.EntityID `json:"exitEntityId"`
}

type TeleportPlayer struct {
	RoomID types.EntityID `json:"roomId"`
}

type CreateEntity struct {
	Entity ecs.Template `json:"entity"`
}

type UpdateEntity struct {
	EntityID types.EntityID `json:"entityId"`
	Data     ecs.Patch      `json:"data"`
}

type RemoveEntity struct {
	EntityID types.EntityID `json:"entityId"`
}

type MoveEntity struct {
	EntityID          types.EntityID `json:"entityId"`
	TargetContainerID types.EntityID `json:"targetContainerId"`
}

type SetVariable struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

type AddMessage struct {
	Text string `json:"text"`
}

// SetRoomPosition places a room's node on the editor map.
type SetRoomPosition struct {
	RoomID types.EntityID `json:"roomId"`
	X      float64        `json:"x"`
	Y      float64        `json:"y"`
}

type LoadWorld struct {
	Definition Definition `json:"definition"`
}

// LoadGame restores a persisted session snapshot.
type LoadGame struct {
	State Snapshot `json:"state"`
}

func (AdvanceTime) Type() ActionType     { return ActionTickTime }
func (MovePlayer) Type() ActionType      { return ActionMovePlayer }
func (TeleportPlayer) Type() ActionType  { return ActionTeleportPlayer }
func (CreateEntity) Type() ActionType    { return ActionAddEntity }
func (UpdateEntity) Type() ActionType    { return ActionUpdateEntity }
func (RemoveEntity) Type() ActionType    { return ActionRemoveEntity }
func (MoveEntity) Type() ActionType      { return ActionMoveEntity }
func (SetVariable) Type() ActionType     { return ActionSetVariable }
func (AddMessage) Type() ActionType      { return ActionAddMessage }
func (SetRoomPosition) Type() ActionType { return ActionSetRoomPosition }
func (LoadWorld) Type() ActionType       { return ActionLoadWorld }
func (LoadGame) Type() ActionType        { return ActionLoadGame }
