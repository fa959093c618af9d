package jobtmpl

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	yamlv3 "go.yaml.in/yaml/v3"
)

// Format 模板文档格式。
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatHCL  Format = "hcl"
)

// FormatOf 根据文件名（或 URL）的扩展名判断格式，无法识别时按 YAML 处理。
func FormatOf(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".jsonc":
		return FormatJSON
	case ".hcl":
		return FormatHCL
	default:
		return FormatYAML
	}
}

// Parse 按 name 的扩展名解析模板文档。
func Parse(name string, data []byte) (Table, error) {
	var (
		table Table
		err   error
	)
	switch FormatOf(name) {
	case FormatJSON:
		table, err = ParseJSON(data)
	case FormatHCL:
		table, err = ParseHCL(name, data)
	default:
		table, err = ParseYAML(data)
	}
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", name, err)
	}

	return table, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// YAML
// ═══════════════════════════════════════════════════════════════════════════

// ParseYAML 解析 YAML 模板文档。
//
// 标量保留字面文本（"010" 不会变成 "8"），自定义标签（如 !reference）
// 作用在序列上时整项忽略。空文档返回空表。
func ParseYAML(data []byte) (Table, error) {
	var doc yamlv3.Node
	if err := yamlv3.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedTemplate, err)
	}
	if doc.Kind == 0 {
		return Table{}, nil
	}

	root := deref(&doc)
	if root.Kind == yamlv3.DocumentNode {
		if len(root.Content) == 0 {
			return Table{}, nil
		}
		root = deref(root.Content[0])
	}
	if isNull(root) {
		return Table{}, nil
	}
	if root.Kind != yamlv3.MappingNode {
		return nil, fmt.Errorf("%w: root must be a mapping of job names (line %d)", ErrMalformedTemplate, root.Line)
	}

	table := make(Table)
	for _, e := range mappingEntries(root) {
		table[e.key] = yamlJob(e.key, e.value)
	}

	return table, nil
}

type yamlEntry struct {
	key   string
	value *yamlv3.Node
}

func deref(node *yamlv3.Node) *yamlv3.Node {
	for node != nil && node.Kind == yamlv3.AliasNode {
		node = node.Alias
	}

	return node
}

func isNull(node *yamlv3.Node) bool {
	return node == nil || (node.Kind == yamlv3.ScalarNode && node.ShortTag() == "!!null")
}

// mappingEntries 返回映射的键值对，展开 "<<" 合并键。
//
// 显式 key 优先于合并进来的 key；多个合并来源时先出现者优先。
func mappingEntries(node *yamlv3.Node) []yamlEntry {
	return mergedEntries(node, make(map[*yamlv3.Node]struct{}))
}

// mergedEntries 展开合并键，active 为当前合并链上的映射，
// 合并回自身祖先的来源不再贡献 key。
func mergedEntries(node *yamlv3.Node, active map[*yamlv3.Node]struct{}) []yamlEntry {
	node = deref(node)
	if node == nil || node.Kind != yamlv3.MappingNode {
		return nil
	}
	if _, ok := active[node]; ok {
		return nil
	}
	active[node] = struct{}{}
	defer delete(active, node)

	var (
		explicit []yamlEntry
		sources  []*yamlv3.Node
	)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := deref(node.Content[i]), node.Content[i+1]
		if key.Kind != yamlv3.ScalarNode {
			continue
		}
		if key.ShortTag() == "!!merge" {
			value = deref(value)
			if value.Kind == yamlv3.SequenceNode {
				sources = append(sources, value.Content...)
			} else {
				sources = append(sources, value)
			}

			continue
		}
		explicit = append(explicit, yamlEntry{key: key.Value, value: value})
	}
	if len(sources) == 0 {
		return explicit
	}

	seen := make(map[string]struct{}, len(explicit))
	for _, e := range explicit {
		seen[e.key] = struct{}{}
	}
	out := explicit
	for _, src := range sources {
		for _, e := range mergedEntries(src, active) {
			if _, ok := seen[e.key]; ok {
				continue
			}
			seen[e.key] = struct{}{}
			out = append(out, e)
		}
	}

	return out
}

func yamlJob(name string, node *yamlv3.Node) Job {
	job := Job{Name: name}
	for _, e := range mappingEntries(node) {
		switch e.key {
		case "extends":
			job.Extends = yamlExtends(e.value)
		case "variables":
			job.Variables = yamlVariables(e.value)
		}
	}

	return job
}

func yamlExtends(node *yamlv3.Node) []string {
	node = deref(node)
	switch {
	case isNull(node):
		return nil
	case node.Kind == yamlv3.ScalarNode:
		return []string{node.Value}
	case node.Kind == yamlv3.SequenceNode:
		out := make([]string, 0, len(node.Content))
		for _, item := range node.Content {
			item = deref(item)
			if item.Kind == yamlv3.ScalarNode && !isNull(item) {
				out = append(out, item.Value)
			}
		}

		return out
	default:
		return nil
	}
}

func yamlVariables(node *yamlv3.Node) map[string]string {
	entries := mappingEntries(node)
	if len(entries) == 0 {
		return nil
	}

	vars := make(map[string]string, len(entries))
	for _, e := range entries {
		if value, ok := yamlScalar(e.value); ok {
			vars[e.key] = value
		}
	}

	return vars
}

// yamlScalar 取变量值；支持 {value: ..., description: ...} 写法。
func yamlScalar(node *yamlv3.Node) (string, bool) {
	return scalarValue(node, make(map[*yamlv3.Node]struct{}))
}

func scalarValue(node *yamlv3.Node, seen map[*yamlv3.Node]struct{}) (string, bool) {
	node = deref(node)
	switch {
	case isNull(node):
		return "", false
	case node.Kind == yamlv3.ScalarNode:
		return node.Value, true
	case node.Kind == yamlv3.MappingNode:
		if _, ok := seen[node]; ok {
			return "", false
		}
		seen[node] = struct{}{}
		for _, e := range mappingEntries(node) {
			if e.key == "value" {
				return scalarValue(e.value, seen)
			}
		}
	}

	return "", false
}

// ═══════════════════════════════════════════════════════════════════════════
// JSON / JSONC
// ═══════════════════════════════════════════════════════════════════════════

// ParseJSON 解析 JSON 模板文档，允许 // 注释、/* */ 注释与尾随逗号。
//
// 数字保留字面文本，布尔值为 "true"/"false"。
func ParseJSON(data []byte) (Table, error) {
	stripped := jsonc.ToJSON(data)
	if len(bytes.TrimSpace(stripped)) == 0 {
		return Table{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(stripped))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedTemplate, err)
	}
	if raw == nil {
		return Table{}, nil
	}
	root, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: root must be an object of job names", ErrMalformedTemplate)
	}

	table := make(Table, len(root))
	for name, value := range root {
		table[name] = jsonJob(name, value)
	}

	return table, nil
}

func jsonJob(name string, value any) Job {
	job := Job{Name: name}
	def, ok := value.(map[string]any)
	if !ok {
		return job
	}

	switch ext := def["extends"].(type) {
	case string:
		job.Extends = []string{ext}
	case []any:
		for _, item := range ext {
			if s, ok := item.(string); ok {
				job.Extends = append(job.Extends, s)
			}
		}
	}

	if vars, ok := def["variables"].(map[string]any); ok && len(vars) > 0 {
		job.Variables = make(map[string]string, len(vars))
		for key, v := range vars {
			if s, ok := jsonScalar(v); ok {
				job.Variables[key] = s
			}
		}
	}

	return job
}

func jsonScalar(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	case bool:
		if v {
			return "true", true
		}
		return "false", true
	case map[string]any:
		if inner, ok := v["value"]; ok {
			return jsonScalar(inner)
		}
	}

	return "", false
}
