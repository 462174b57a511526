package component

// TriggerInteract fires when the player interacts with an entity.
const TriggerInteract = "ON_INTERACT"

// Scripts maps a trigger name to its rules, in priority order.
type Scripts map[string][]Script

// Script is one guarded rule: when every condition holds, its effects fire.
type Script struct {
	Conditions []Condition `json:"conditions,omitempty" yaml:"conditions,omitempty"`
	Effects    []Effect    `json:"effects" yaml:"effects"`
}

type ConditionType string

const (
	ConditionFlagTrue  ConditionType = "FLAG_TRUE"
	ConditionFlagFalse ConditionType = "FLAG_FALSE"
)

type Condition struct {
	Type ConditionType `json:"type" yaml:"type"`
	Flag string        `json:"flag" yaml:"flag"`
}

type EffectType string

const (
	EffectSetFlag      EffectType = "SET_FLAG"
	EffectShowDialogue EffectType = "SHOW_DIALOGUE"
)

// Effect describes a state change. Only the fields of its Type are read:
// SET_FLAG uses Flag and Value, SHOW_DIALOGUE uses Text.
type Effect struct {
	Type  EffectType `json:"type" yaml:"type"`
	Flag  string     `json:"flag,omitempty" yaml:"flag,omitempty"`
	Value any        `json:"value,omitempty" yaml:"value,omitempty"`
	Text  string     `json:"text,omitempty" yaml:"text,omitempty"`
}
