package types

// Tool describes a callable agent tool: its name and the JSON schema of
// its argument record.
type Tool struct {
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	InputSchema ToolSchema `json:"input_schema"`
}

// ToolSchema is the object schema for a tool's arguments.
type ToolSchema struct {
	Type       string                  `json:"type"`
	Properties map[string]ToolProperty `json:"properties,omitempty"`
	Required   []string                `json:"required,omitempty"`
}

// ToolProperty describes a single argument. Enum carries the accepted
// values for discriminator fields such as "action". Properties is set
// for nested object arguments.
type ToolProperty struct {
	Type        string                  `json:"type"`
	Description string                  `json:"description,omitempty"`
	Enum        []string                `json:"enum,omitempty"`
	Items       *ToolPropertyItems      `json:"items,omitempty"`
	Properties  map[string]ToolProperty `json:"properties,omitempty"`
}

// ToolPropertyItems describes array element types.
type ToolPropertyItems struct {
	Type string `json:"type"`
}

// EnumValues returns the enum of the named property, or nil when the
// property does not exist or is not an enumeration.
func (s *ToolSchema) EnumValues(name string) []string {
	if s == nil {
		return nil
	}
	prop, ok := s.Properties[name]
	if !ok {
		return nil
	}
	return prop.Enum
}

// HasProperty reports whether the schema declares the named argument.
func (s *ToolSchema) HasProperty(name string) bool {
	if s == nil {
		return false
	}
	_, ok := s.Properties[name]
	return ok
}
