package types

// ToolValidator checks argument records against tool schemas. It never
// modifies a record; repair happens elsewhere.
type ToolValidator interface {
	// ValidateArguments performs parameter validation against the
	// tool's schema.
	ValidateArguments(tool *Tool, record map[string]interface{}) ValidationResult
}

// ValidationResult represents the outcome of argument validation
type ValidationResult struct {
	IsValid        bool
	MissingParams  []string
	UnknownParams  []string
	InvalidActions []string
}

// StandardToolValidator validates required parameters, undeclared
// parameters, and enum-constrained values.
type StandardToolValidator struct{}

// NewStandardToolValidator creates a new StandardToolValidator
func NewStandardToolValidator() *StandardToolValidator {
	return &StandardToolValidator{}
}

// ValidateArguments reports missing required parameters, parameters
// the schema does not declare, and enum values outside the accepted
// set. Unknown parameters alone do not make the record invalid; some
// tools tolerate extras.
func (v *StandardToolValidator) ValidateArguments(tool *Tool, record map[string]interface{}) ValidationResult {
	result := ValidationResult{IsValid: true}
	if tool == nil {
		return result
	}
	schema := &tool.InputSchema

	for _, required := range schema.Required {
		if _, present := record[required]; !present {
			result.MissingParams = append(result.MissingParams, required)
			result.IsValid = false
		}
	}

	for key, value := range record {
		prop, declared := schema.Properties[key]
		if !declared {
			result.UnknownParams = append(result.UnknownParams, key)
			continue
		}
		if len(prop.Enum) == 0 {
			continue
		}
		s, ok := value.(string)
		if !ok {
			continue
		}
		accepted := false
		for _, e := range prop.Enum {
			if e == s {
				accepted = true
				break
			}
		}
		if !accepted {
			result.InvalidActions = append(result.InvalidActions, key)
			result.IsValid = false
		}
	}
	return result
}
