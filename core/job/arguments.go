package job

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

type Argument struct {
	Key   string
	Value string
}

// Arguments are the ordered command line arguments of a job, written in YAML
// as a sequence of mappings: [{foo: bar}, {baz: foobar}].
type Arguments []Argument

func (a *Arguments) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: arguments should be a list of mappings", node.Line)
	}

	args := Arguments{}
	for _, item := range node.Content {
		if item.Kind != yaml.MappingNode {
			return fmt.Errorf("line %d: argument should be a mapping", item.Line)
		}
		for i := 0; i+1 < len(item.Content); i += 2 {
			key, value := item.Content[i], item.Content[i+1]
			if value.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: value of argument [%s] should be a scalar", value.Line, key.Value)
			}
			args = append(args, Argument{Key: key.Value, Value: value.Value})
		}
	}
	*a = args
	return nil
}

func (a Arguments) MarshalYAML() (any, error) {
	out := make([]map[string]string, len(a))
	for i, arg := range a {
		out[i] = map[string]string{arg.Key: arg.Value}
	}
	return out, nil
}

// Flatten turns every argument into the tokens "--key", "value", in order.
func (a Arguments) Flatten() []string {
	if len(a) == 0 {
		return nil
	}
	params := make([]string, 0, len(a)*2)
	for _, arg := range a {
		params = append(params, "--"+arg.Key, arg.Value)
	}
	return params
}
