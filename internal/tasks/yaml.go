// Package tasks loads and queries a workspace's tasks.yaml: per-lane
// backlog/in_progress/done queues that drive the nudge algorithm in
// internal/hiveserver.
package tasks

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// File is the root of tasks.yaml.
type File struct {
	WorkerProtocol WorkerProtocol         `yaml:"worker_protocol,omitempty"`
	Rules          []string               `yaml:"rules,omitempty"`
	GlobalBacklog  []Task                 `yaml:"global_backlog,omitempty"`
	Projects       map[string]ProjectEntry `yaml:"-"`
}

// WorkerProtocol carries the task file's claim/complete instructions for
// workers. The nudge template does not reference it.
type WorkerProtocol struct {
	Claim    string `yaml:"claim,omitempty"`
	Complete string `yaml:"complete,omitempty"`
}

// ProjectEntry is either a single lane's tasks (Direct, for single-lane
// projects) or a map of lane name to lane tasks (Nested, for multi-lane
// projects). Exactly one of the two is non-nil after decoding.
type ProjectEntry struct {
	Direct *LaneTasks
	Nested map[string]*LaneTasks
}

// LaneTasks holds one lane's queues.
type LaneTasks struct {
	Backlog    []Task `yaml:"backlog,omitempty"`
	InProgress []Task `yaml:"in_progress,omitempty"`
	Done       []Task `yaml:"done,omitempty"`
}

// Task is one unit of work moving through a lane's queues.
type Task struct {
	ID           string   `yaml:"id"`
	Title        string   `yaml:"title,omitempty"`
	Description  string   `yaml:"description,omitempty"`
	Priority     string   `yaml:"priority,omitempty"`
	Acceptance   []string `yaml:"acceptance,omitempty"`
	ClaimedBy    string   `yaml:"claimed_by,omitempty"`
	ClaimedAt    string   `yaml:"claimed_at,omitempty"`
	CompletedAt  string   `yaml:"completed_at,omitempty"`
	Summary      string   `yaml:"summary,omitempty"`
	FilesChanged []string `yaml:"files_changed,omitempty"`
	Question     string   `yaml:"question,omitempty"`
	PRURL        string   `yaml:"pr_url,omitempty"`
	Branch       string   `yaml:"branch,omitempty"`
}

// Counts summarizes a lane's queue lengths.
type Counts struct {
	Backlog    int
	InProgress int
	Done       int
}

var reservedKeys = map[string]bool{
	"worker_protocol": true,
	"rules":           true,
	"global_backlog":  true,
}

var laneTaskKeys = map[string]bool{
	"backlog":     true,
	"in_progress": true,
	"done":        true,
}

// UnmarshalYAML decodes the mapping-valued reserved keys explicitly, then
// decides per remaining key whether it is a Direct lane (its sub-keys are a
// subset of backlog/in_progress/done) or a Nested map of lane name to
// LaneTasks, mirroring the shape of the original YAML's projects map.
func (f *File) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("tasks.yaml: expected a mapping at the document root")
	}

	f.Projects = make(map[string]ProjectEntry)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		val := node.Content[i+1]

		switch key {
		case "worker_protocol":
			if err := val.Decode(&f.WorkerProtocol); err != nil {
				return fmt.Errorf("tasks.yaml: worker_protocol: %w", err)
			}
		case "rules":
			if err := val.Decode(&f.Rules); err != nil {
				return fmt.Errorf("tasks.yaml: rules: %w", err)
			}
		case "global_backlog":
			if err := val.Decode(&f.GlobalBacklog); err != nil {
				return fmt.Errorf("tasks.yaml: global_backlog: %w", err)
			}
		default:
			entry, err := decodeProjectEntry(key, val)
			if err != nil {
				return err
			}
			f.Projects[key] = entry
		}
	}
	return nil
}

func decodeProjectEntry(project string, node *yaml.Node) (ProjectEntry, error) {
	if node.Kind != yaml.MappingNode {
		return ProjectEntry{}, fmt.Errorf("tasks.yaml: project %q: expected a mapping", project)
	}

	isDirect := true
	for i := 0; i+1 < len(node.Content); i += 2 {
		if !laneTaskKeys[node.Content[i].Value] {
			isDirect = false
			break
		}
	}

	if isDirect {
		var lt LaneTasks
		if err := node.Decode(&lt); err != nil {
			return ProjectEntry{}, fmt.Errorf("tasks.yaml: project %q: %w", project, err)
		}
		return ProjectEntry{Direct: &lt}, nil
	}

	var nested map[string]*LaneTasks
	if err := node.Decode(&nested); err != nil {
		return ProjectEntry{}, fmt.Errorf("tasks.yaml: project %q: %w", project, err)
	}
	return ProjectEntry{Nested: nested}, nil
}

// Load reads and parses tasks.yaml at path. A missing file is not an error:
// it returns an empty File, so a workspace may run without a task file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &File{Projects: map[string]ProjectEntry{}}, nil
		}
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// CountsForLane resolves lane counts for a "project" (direct) or
// "project/sublane" (nested) lane identifier. An unknown lane returns a
// zero Counts.
func CountsForLane(f *File, lane string) Counts {
	if project, sublane, ok := strings.Cut(lane, "/"); ok {
		entry, found := f.Projects[project]
		if !found || entry.Nested == nil {
			return Counts{}
		}
		lt, found := entry.Nested[sublane]
		if !found || lt == nil {
			return Counts{}
		}
		return countsOf(lt)
	}

	entry, found := f.Projects[lane]
	if !found || entry.Direct == nil {
		return Counts{}
	}
	return countsOf(entry.Direct)
}

func countsOf(lt *LaneTasks) Counts {
	return Counts{
		Backlog:    len(lt.Backlog),
		InProgress: len(lt.InProgress),
		Done:       len(lt.Done),
	}
}
