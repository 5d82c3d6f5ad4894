package journey

// SimulationInput is one domain event to match a journey against. Context is
// the flat field map conditions read from; a missing key fails the condition
// that references it.
type SimulationInput struct {
	Trigger Trigger           `json:"trigger"`
	Context map[string]string `json:"context,omitempty"`
}

// SimulationResult reports whether the journey would fire and why not. Actions
// are returned verbatim in declared order; execution belongs to the
// dispatcher, never to the simulator.
type SimulationResult struct {
	Matched          bool        `json:"matched"`
	FailedConditions []Condition `json:"failed_conditions"`
	Actions          []Action    `json:"actions"`
}

// Simulate decides whether a journey fires for an event. Conditions are
// AND-ed and every one is evaluated even after a failure, so the caller sees
// the complete mismatch list. An inactive journey or a trigger mismatch fails
// every condition trivially.
func Simulate(journey Definition, input SimulationInput) SimulationResult {
	if !journey.IsActive || journey.Trigger != input.Trigger {
		return SimulationResult{
			Matched:          false,
			FailedConditions: append([]Condition{}, journey.Conditions...),
			Actions:          []Action{},
		}
	}

	failed := []Condition{}
	for _, condition := range journey.Conditions {
		if !evaluateCondition(condition, input.Context) {
			failed = append(failed, condition)
		}
	}

	if len(failed) > 0 {
		return SimulationResult{Matched: false, FailedConditions: failed, Actions: []Action{}}
	}
	return SimulationResult{
		Matched:          true,
		FailedConditions: []Condition{},
		Actions:          append([]Action{}, journey.Actions...),
	}
}

// evaluateCondition is total: malformed shapes (scalar value under a list
// operator) fail the condition instead of erroring.
func evaluateCondition(condition Condition, context map[string]string) bool {
	value, ok := context[condition.Field]
	if !ok {
		return false
	}

	switch condition.Operator {
	case OpEquals:
		return value == condition.Value.AsString()
	case OpNotEquals:
		return value != condition.Value.AsString()
	case OpIn:
		if !condition.Value.IsList() {
			return false
		}
		return contains(condition.Value.AsList(), value)
	case OpNotIn:
		if !condition.Value.IsList() {
			return false
		}
		return !contains(condition.Value.AsList(), value)
	default:
		return false
	}
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
