package jobtmpl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// hclTemplateFile HCL 模板文档的顶层结构。
type hclTemplateFile struct {
	Jobs   []*hclJob `hcl:"job,block"`
	Remain hcl.Body  `hcl:",remain"`
}

type hclJob struct {
	Name      string         `hcl:"name,label"`
	Extends   hcl.Expression `hcl:"extends,optional"`
	Variables hcl.Expression `hcl:"variables,optional"`
	Remain    hcl.Body       `hcl:",remain"`
}

// ParseHCL 解析 HCL 模板文档。表达式在空求值上下文中计算，不能引用变量或函数。
func ParseHCL(filename string, data []byte) (Table, error) {
	file, diags := hclparse.NewParser().ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("%w: %w", ErrMalformedTemplate, diags)
	}

	var parsed hclTemplateFile
	if diags := gohcl.DecodeBody(file.Body, nil, &parsed); diags.HasErrors() {
		return nil, fmt.Errorf("%w: %w", ErrMalformedTemplate, diags)
	}

	table := make(Table, len(parsed.Jobs))
	for _, block := range parsed.Jobs {
		job, err := hclToJob(block)
		if err != nil {
			return nil, err
		}
		table[job.Name] = job
	}

	return table, nil
}

func hclToJob(block *hclJob) (Job, error) {
	job := Job{Name: block.Name}

	extends, err := hclValue(block.Extends)
	if err != nil {
		return job, fmt.Errorf("%w: job %q extends: %w", ErrMalformedTemplate, block.Name, err)
	}
	switch {
	case extends.IsNull():
	case extends.Type() == cty.String:
		job.Extends = []string{extends.AsString()}
	case extends.CanIterateElements():
		for it := extends.ElementIterator(); it.Next(); {
			_, item := it.Element()
			if s, ok := ctyString(item); ok {
				job.Extends = append(job.Extends, s)
			}
		}
	default:
		return job, fmt.Errorf("%w: job %q extends must be a string or a list", ErrMalformedTemplate, block.Name)
	}

	vars, err := hclValue(block.Variables)
	if err != nil {
		return job, fmt.Errorf("%w: job %q variables: %w", ErrMalformedTemplate, block.Name, err)
	}
	if vars.IsNull() {
		return job, nil
	}
	if !vars.Type().IsObjectType() && !vars.Type().IsMapType() {
		return job, fmt.Errorf("%w: job %q variables must be an object", ErrMalformedTemplate, block.Name)
	}

	job.Variables = make(map[string]string, vars.LengthInt())
	for it := vars.ElementIterator(); it.Next(); {
		key, value := it.Element()
		if s, ok := ctyString(value); ok {
			job.Variables[key.AsString()] = s
		}
	}

	return job, nil
}

func hclValue(expr hcl.Expression) (cty.Value, error) {
	if expr == nil {
		return cty.NullVal(cty.DynamicPseudoType), nil
	}
	value, diags := expr.Value(nil)
	if diags.HasErrors() {
		return cty.NilVal, diags
	}

	return value, nil
}

// ctyString 把基本类型值转为字符串，null 与复合类型返回 false。
func ctyString(value cty.Value) (string, bool) {
	if value.IsNull() || !value.IsKnown() || !value.Type().IsPrimitiveType() {
		return "", false
	}
	s, err := convert.Convert(value, cty.String)
	if err != nil {
		return "", false
	}

	return s.AsString(), true
}
