package jobtmpl

import (
	"errors"
	"slices"
)

// ErrMalformedTemplate 模板文档结构无法识别（例如根节点不是映射）。
var ErrMalformedTemplate = errors.New("jobtmpl: malformed template document")

// Job 模板中的一个作业定义。
type Job struct {
	Name      string
	Extends   []string
	Variables map[string]string
}

// Table 作业名到作业定义的映射，一次解析内不可变。
type Table map[string]Job

// Names 返回排序后的作业名。
func (t Table) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	slices.Sort(names)

	return names
}
