// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
)

func LoadRegistry(path string) (*ToolRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg ToolRegistry
	err = json.Unmarshal(data, &reg)
	return &reg, err
}

// FindByTaskType looks a tool up by its job task type.
func (r *ToolRegistry) FindByTaskType(taskType string) (*Tool, error) {
	for i := range r.Tools {
		if r.Tools[i].TaskType == taskType {
			return &r.Tools[i], nil
		}
	}
	return nil, fmt.Errorf("tool with task type %q not registered", taskType)
}
