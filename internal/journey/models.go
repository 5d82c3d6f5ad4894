package journey

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	id "hearth/pkg/domain"
	dErrors "hearth/pkg/domain-errors"
)

// Trigger names the domain event a journey listens for.
type Trigger string

const (
	TriggerLeadCreated      Trigger = "lead.created"
	TriggerConsentCaptured  Trigger = "consent.captured"
	TriggerTourKept         Trigger = "tour.kept"
	TriggerDealStageChanged Trigger = "deal.stage_changed"
)

var validTriggers = map[Trigger]bool{
	TriggerLeadCreated:      true,
	TriggerConsentCaptured:  true,
	TriggerTourKept:         true,
	TriggerDealStageChanged: true,
}

// IsValid checks if the trigger is one of the supported enum values.
func (t Trigger) IsValid() bool {
	return validTriggers[t]
}

// Operator is one of the closed set of condition comparators. The set is
// deliberately closed: automation rules must stay storable, validatable, and
// simulatable without executing arbitrary logic.
type Operator string

const (
	OpEquals    Operator = "equals"
	OpNotEquals Operator = "not_equals"
	OpIn        Operator = "in"
	OpNotIn     Operator = "not_in"
)

var validOperators = map[Operator]bool{
	OpEquals:    true,
	OpNotEquals: true,
	OpIn:        true,
	OpNotIn:     true,
}

// IsValid checks if the operator is one of the supported enum values.
func (o Operator) IsValid() bool {
	return validOperators[o]
}

// ConditionValue is either a single string or a list of strings, matching how
// journey definitions are authored. It round-trips through JSON and YAML
// without changing shape: a scalar stays a scalar, a list stays a list.
type ConditionValue struct {
	scalar string
	list   []string
	isList bool
}

// Scalar constructs a single-string condition value.
func Scalar(v string) ConditionValue {
	return ConditionValue{scalar: v}
}

// List constructs a string-list condition value.
func List(vs ...string) ConditionValue {
	return ConditionValue{list: vs, isList: true}
}

// IsList reports whether the value is a string list.
func (v ConditionValue) IsList() bool { return v.isList }

// AsList returns the list form, or nil for scalars.
func (v ConditionValue) AsList() []string {
	if !v.isList {
		return nil
	}
	return v.list
}

// AsString returns the scalar form; lists are comma-joined, mirroring the
// string coercion applied when a list value meets a scalar operator.
func (v ConditionValue) AsString() string {
	if v.isList {
		return strings.Join(v.list, ",")
	}
	return v.scalar
}

func (v ConditionValue) MarshalJSON() ([]byte, error) {
	if v.isList {
		return json.Marshal(v.list)
	}
	return json.Marshal(v.scalar)
}

func (v *ConditionValue) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*v = List(list...)
		return nil
	}
	var scalar string
	if err := json.Unmarshal(data, &scalar); err != nil {
		return fmt.Errorf("condition value must be a string or string list")
	}
	*v = Scalar(scalar)
	return nil
}

func (v ConditionValue) MarshalYAML() (any, error) {
	if v.isList {
		return v.list, nil
	}
	return v.scalar, nil
}

func (v *ConditionValue) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return fmt.Errorf("condition value list must contain only strings")
		}
		*v = List(list...)
		return nil
	case yaml.ScalarNode:
		var scalar string
		if err := node.Decode(&scalar); err != nil {
			return err
		}
		*v = Scalar(scalar)
		return nil
	default:
		return fmt.Errorf("condition value must be a string or string list")
	}
}

// Condition is one predicate over a flat context field.
type Condition struct {
	Field    string         `json:"field" yaml:"field"`
	Operator Operator       `json:"operator" yaml:"operator"`
	Value    ConditionValue `json:"value" yaml:"value"`
}

// ActionType tags an automation action.
type ActionType string

const (
	ActionAssign      ActionType = "assign"
	ActionSendMessage ActionType = "send_message"
	ActionCreateTask  ActionType = "create_task"
	ActionUpdateStage ActionType = "update_stage"
)

var validActionTypes = map[ActionType]bool{
	ActionAssign:      true,
	ActionSendMessage: true,
	ActionCreateTask:  true,
	ActionUpdateStage: true,
}

// IsValid checks if the action type is one of the supported enum values.
func (a ActionType) IsValid() bool {
	return validActionTypes[a]
}

// Action is one step a matched journey instructs the dispatcher to take. The
// simulator returns actions verbatim and never executes them; Params carries
// the type-specific detail (assignee, template, task title, target stage).
type Action struct {
	Type   ActionType        `json:"type" yaml:"type"`
	Params map[string]string `json:"params,omitempty" yaml:"params,omitempty"`
}

// Definition is one stored automation rule: when the trigger fires and every
// condition holds, the declared actions should run, in order.
type Definition struct {
	ID         id.JourneyID `json:"id" yaml:"id"`
	TenantID   id.TenantID  `json:"tenant_id" yaml:"tenant_id"`
	Name       string       `json:"name" yaml:"name"`
	Trigger    Trigger      `json:"trigger" yaml:"trigger"`
	Conditions []Condition  `json:"conditions,omitempty" yaml:"conditions,omitempty"`
	Actions    []Action     `json:"actions" yaml:"actions"`
	IsActive   bool         `json:"is_active" yaml:"is_active"`
}

// definitionWire decodes is_active through a pointer so an omitted field can
// be told apart from an explicit false. A journey is active unless its author
// switches it off.
type definitionWire struct {
	ID         id.JourneyID `json:"id" yaml:"id"`
	TenantID   id.TenantID  `json:"tenant_id" yaml:"tenant_id"`
	Name       string       `json:"name" yaml:"name"`
	Trigger    Trigger      `json:"trigger" yaml:"trigger"`
	Conditions []Condition  `json:"conditions,omitempty" yaml:"conditions,omitempty"`
	Actions    []Action     `json:"actions" yaml:"actions"`
	IsActive   *bool        `json:"is_active" yaml:"is_active"`
}

func (w definitionWire) toDefinition() Definition {
	active := true
	if w.IsActive != nil {
		active = *w.IsActive
	}
	return Definition{
		ID:         w.ID,
		TenantID:   w.TenantID,
		Name:       w.Name,
		Trigger:    w.Trigger,
		Conditions: w.Conditions,
		Actions:    w.Actions,
		IsActive:   active,
	}
}

func (d *Definition) UnmarshalJSON(data []byte) error {
	var w definitionWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*d = w.toDefinition()
	return nil
}

func (d *Definition) UnmarshalYAML(node *yaml.Node) error {
	var w definitionWire
	if err := node.Decode(&w); err != nil {
		return err
	}
	*d = w.toDefinition()
	return nil
}

// Validate enforces the definition invariants at trust boundaries.
func (d Definition) Validate() error {
	if d.Name == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "name cannot be empty")
	}
	if !d.Trigger.IsValid() {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid trigger: "+string(d.Trigger))
	}
	for i, condition := range d.Conditions {
		if condition.Field == "" {
			return dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("condition %d: field cannot be empty", i))
		}
		if !condition.Operator.IsValid() {
			return dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("condition %d: invalid operator: %s", i, condition.Operator))
		}
	}
	if len(d.Actions) == 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "at least one action is required")
	}
	for i, action := range d.Actions {
		if !action.Type.IsValid() {
			return dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("action %d: invalid type: %s", i, action.Type))
		}
	}
	return nil
}
