package cfgm_test

import (
	"fmt"
	"time"

	"github.com/lwmacct/251207-go-pkg-civars/pkg/cfgm"
)

// Example_defaultPaths 演示 DefaultPaths 的搜索顺序。
func Example_defaultPaths() {
	// 不指定应用名称时，返回基础路径
	paths := cfgm.DefaultPaths()
	fmt.Println("基础路径数量:", len(paths))

	// 指定应用名称时，会包含应用专属配置路径
	paths = cfgm.DefaultPaths("civars")
	fmt.Println("带应用名路径数量:", len(paths))
	fmt.Println(paths[0])

	// Output:
	// 基础路径数量: 2
	// 带应用名路径数量: 5
	// .civars.yaml
}

// Example_load 演示环境变量覆盖默认值。
func Example_load() {
	type Template struct {
		URL     string        `json:"url"`
		Timeout time.Duration `json:"timeout"`
	}
	type Config struct {
		JobType  string   `json:"job-type"`
		Template Template `json:"template"`
	}

	env := map[string]string{
		"JOB_TYPE":                "ci-tron-job",
		"CIVARS_TEMPLATE_TIMEOUT": "5s",
	}
	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}

	cfg, err := cfgm.Load(Config{Template: Template{URL: "https://example.org", Timeout: 30 * time.Second}},
		cfgm.WithConfigPaths("testdata/does-not-exist.yaml"),
		cfgm.WithEnvPrefix("CIVARS_"),
		cfgm.WithEnvBindings(map[string]string{"JOB_TYPE": "job-type"}),
		cfgm.WithLookupEnv(lookup),
	)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(cfg.JobType, cfg.Template.URL, cfg.Template.Timeout)

	// Output:
	// ci-tron-job https://example.org 5s
}

// Example_flagName 演示配置 key 到 CLI flag 的映射。
func Example_flagName() {
	fmt.Println(cfgm.FlagName("template.url"))
	fmt.Println(cfgm.FlagName("expand.max-passes"))

	// Output:
	// template-url
	// expand-max-passes
}
