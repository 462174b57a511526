package world

import (
	"fmt"

	"github.com/goccy/go-json"
)

// envelope is the tagged wire record of an action.
type envelope struct {
	Type    ActionType      `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// MarshalAction encodes an action as {"type": ..., "payload": ...}.
func MarshalAction(a Action) ([]byte, error) {
	if a == nil {
		return nil, fmt.Errorf("marshal action: nil action")
	}
	payload, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", a.Type(), err)
	}
	return json.Marshal(envelope{Type: a.Type(), Payload: payload})
}

// UnmarshalAction decodes a tagged action record. Unknown tags are an error.
func UnmarshalAction(data []byte) (Action, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("unmarshal action: %w", err)
	}
	switch env.Type {
	case ActionTickTime:
		return decodePayload[AdvanceTime](env)
	case ActionMovePlayer:
		return decodePayload[MovePlayer](env)
	case ActionTeleportPlayer:
		return decodePayload[TeleportPlayer](env)
	case ActionAddEntity:
		return decodePayload[CreateEntity](env)
	case ActionUpdateEntity:
		return decodePayload[UpdateEntity](env)
	case ActionRemoveEntity:
		return decodePayload[RemoveEntity](env)
	case ActionMoveEntity:
		return decodePayload[MoveEntity](env)
	case ActionSetVariable:
		return decodePayload[SetVariable](env)
	case ActionAddMessage:
		return decodePayload[AddMessage](env)
	case ActionSetRoomPosition:
		return decodePayload[SetRoomPosition](env)
	case ActionLoadWorld:
		return decodePayload[LoadWorld](env)
	case ActionLoadGame:
		return decodePayload[LoadGame](env)
	default:
		return nil, fmt.Errorf("unmarshal action: unknown type %q", env.Type)
	}
}

func decodePayload[T Action](env envelope) (Action, error) {
	var v T
	if len(env.Payload) == 0 {
		return v, nil
	}
	if err := json.Unmarshal(env.Payload, &v); err != nil {
		return nil, fmt.Errorf("unmarshal %s payload: %w", env.Type, err)
	}
	return v, nil
}
