package jobtmpl_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lwmacct/251207-go-pkg-civars/pkg/jobtmpl"
)

const dutYAML = `
stages: [test]

.defaults: &defaults
  variables:
    CI_TRON_TIMEOUT: 60
    CI_TRON_RETRIES: "010"
    CI_TRON_DISABLED: ~

.ci-tron-job-v1:
  extends: .ci-tron-base
  variables:
    CI_TRON_KERNEL: "${CI_TRON_KERNEL_URL}"
    CI_TRON_FLAG: true
    CI_TRON_DOC:
      value: documented
      description: carries a description

.ci-tron-base:
  <<: *defaults
  script:
    - !reference [.setup, script]

.ci-tron-b2c-job-v1:
  extends:
    - .ci-tron-job-v1
    - .ci-tron-base
  variables:
    CI_TRON__B2C_EXEC_CMD: |
      uname -a
      run-tests
`

func TestParseYAML(t *testing.T) {
	table, err := jobtmpl.ParseYAML([]byte(dutYAML))
	require.NoError(t, err)

	want := jobtmpl.Table{
		"stages": {Name: "stages"},
		".defaults": {
			Name:      ".defaults",
			Variables: map[string]string{"CI_TRON_TIMEOUT": "60", "CI_TRON_RETRIES": "010"},
		},
		".ci-tron-job-v1": {
			Name:    ".ci-tron-job-v1",
			Extends: []string{".ci-tron-base"},
			Variables: map[string]string{
				"CI_TRON_KERNEL": "${CI_TRON_KERNEL_URL}",
				"CI_TRON_FLAG":   "true",
				"CI_TRON_DOC":    "documented",
			},
		},
		".ci-tron-base": {
			Name:      ".ci-tron-base",
			Variables: map[string]string{"CI_TRON_TIMEOUT": "60", "CI_TRON_RETRIES": "010"},
		},
		".ci-tron-b2c-job-v1": {
			Name:      ".ci-tron-b2c-job-v1",
			Extends:   []string{".ci-tron-job-v1", ".ci-tron-base"},
			Variables: map[string]string{"CI_TRON__B2C_EXEC_CMD": "uname -a\nrun-tests\n"},
		},
	}
	if diff := cmp.Diff(want, table, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("ParseYAML() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseYAML_MergeKeyPrecedence(t *testing.T) {
	doc := `
.a: &a
  variables: {X: a, Y: a}
.b: &b
  variables: {X: b, Z: b}
job:
  <<: [*a, *b]
  extends: .a
`
	table, err := jobtmpl.ParseYAML([]byte(doc))
	require.NoError(t, err)

	job := table["job"]
	assert.Equal(t, []string{".a"}, job.Extends)
	assert.Equal(t, map[string]string{"X": "a", "Y": "a"}, job.Variables, "first merge source wins for the whole key")
}

func TestParseYAML_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "sequence root", doc: "- a\n- b\n"},
		{name: "scalar root", doc: "just text"},
		{name: "invalid syntax", doc: "a: [b\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := jobtmpl.ParseYAML([]byte(tt.doc))
			require.ErrorIs(t, err, jobtmpl.ErrMalformedTemplate)
		})
	}
}

func TestParseYAML_RecursiveAnchors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want map[string]string
	}{
		{
			name: "merge key into itself",
			doc:  "job: &a\n  <<: *a\n  variables:\n    CI_TRON_X: x\n",
			want: map[string]string{"CI_TRON_X": "x"},
		},
		{
			name: "merge key into an ancestor",
			doc:  "job: &a\n  variables:\n    <<: *a\n    CI_TRON_X: x\n",
			want: map[string]string{"CI_TRON_X": "x"},
		},
		{
			name: "value mapping pointing at itself",
			doc:  "job:\n  variables:\n    CI_TRON_X: x\n    CI_TRON_V: &v\n      value: *v\n",
			want: map[string]string{"CI_TRON_X": "x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := jobtmpl.ParseYAML([]byte(tt.doc))
			require.NoError(t, err)
			require.Contains(t, table, "job")
			assert.Equal(t, tt.want, table["job"].Variables)
		})
	}
}

func TestParseYAML_Empty(t *testing.T) {
	for _, doc := range []string{"", "# only a comment\n", "~\n"} {
		table, err := jobtmpl.ParseYAML([]byte(doc))
		require.NoError(t, err, doc)
		assert.Empty(t, table, doc)
	}
}

func TestParseJSON(t *testing.T) {
	doc := `{
	// comments and trailing commas are allowed
	".base": {
		"variables": {
			"CI_TRON_TIMEOUT": 60.50,
			"CI_TRON_FLAG": false,
			"CI_TRON_NULL": null,
			"CI_TRON_DOC": {"value": "documented", "description": "x"},
		},
	},
	".job": {"extends": [".base", 3], "variables": {"CI_TRON_NAME": "job"}},
	".single": {"extends": ".job"},
	"stages": ["test"],
}`
	table, err := jobtmpl.ParseJSON([]byte(doc))
	require.NoError(t, err)

	want := jobtmpl.Table{
		".base": {
			Name: ".base",
			Variables: map[string]string{
				"CI_TRON_TIMEOUT": "60.50",
				"CI_TRON_FLAG":    "false",
				"CI_TRON_DOC":     "documented",
			},
		},
		".job": {
			Name:      ".job",
			Extends:   []string{".base"},
			Variables: map[string]string{"CI_TRON_NAME": "job"},
		},
		".single": {Name: ".single", Extends: []string{".job"}},
		"stages":  {Name: "stages"},
	}
	if diff := cmp.Diff(want, table, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("ParseJSON() mismatch (-want +got):\n%s", diff)
	}

	_, err = jobtmpl.ParseJSON([]byte(`["not", "an", "object"]`))
	require.ErrorIs(t, err, jobtmpl.ErrMalformedTemplate)
}

func TestParseHCL(t *testing.T) {
	doc := `
job ".base" {
  variables = {
    CI_TRON_TIMEOUT = 60
    CI_TRON_FLAG    = true
    CI_TRON_NULL    = null
    CI_TRON_REF     = "$${CI_TRON_TIMEOUT}"
  }
  script = ["ignored"]
}

job ".ci-tron-job-v1" {
  extends = [".base", ".other"]
}

job ".single" {
  extends = ".base"
}
`
	table, err := jobtmpl.ParseHCL("dut.hcl", []byte(doc))
	require.NoError(t, err)

	want := jobtmpl.Table{
		".base": {
			Name: ".base",
			Variables: map[string]string{
				"CI_TRON_TIMEOUT": "60",
				"CI_TRON_FLAG":    "true",
				"CI_TRON_REF":     "${CI_TRON_TIMEOUT}",
			},
		},
		".ci-tron-job-v1": {Name: ".ci-tron-job-v1", Extends: []string{".base", ".other"}},
		".single":         {Name: ".single", Extends: []string{".base"}},
	}
	if diff := cmp.Diff(want, table, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("ParseHCL() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseHCL_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "syntax", doc: `job "x" {`},
		{name: "variables not an object", doc: `job "x" { variables = "nope" }`},
		{name: "unknown reference", doc: `job "x" { variables = { A = var.b } }`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := jobtmpl.ParseHCL("bad.hcl", []byte(tt.doc))
			require.ErrorIs(t, err, jobtmpl.ErrMalformedTemplate)
		})
	}
}

func TestParse_DispatchesOnExtension(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format jobtmpl.Format
	}{
		{name: "dut.yml", data: "a: {variables: {X: '1'}}", format: jobtmpl.FormatYAML},
		{name: "https://example.org/-/raw/main/.gitlab-ci/dut.yaml", data: "a: {variables: {X: '1'}}", format: jobtmpl.FormatYAML},
		{name: "dut.JSON", data: `{"a": {"variables": {"X": "1"}}}`, format: jobtmpl.FormatJSON},
		{name: "dut.jsonc", data: `{"a": {"variables": {"X": "1"},},}`, format: jobtmpl.FormatJSON},
		{name: "dut.hcl", data: `job "a" { variables = { X = "1" } }`, format: jobtmpl.FormatHCL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.format, jobtmpl.FormatOf(tt.name))

			table, err := jobtmpl.Parse(tt.name, []byte(tt.data))
			require.NoError(t, err)
			assert.Equal(t, map[string]string{"X": "1"}, table["a"].Variables)
		})
	}
}

func TestParse_WrapsSourceName(t *testing.T) {
	_, err := jobtmpl.Parse("broken.yml", []byte("- a"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.yml")
	assert.ErrorIs(t, err, jobtmpl.ErrMalformedTemplate)
}
