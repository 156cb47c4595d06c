package config

// Config is the top-level policy definition file.
type Config struct {
	ConfigVersion int          `yaml:"configVersion"`
	Policies      []PolicySpec `yaml:"policies"`

	baseDir string `yaml:"-"`
}

// PolicySpec declares one Content-Security-Policy header to build.
type PolicySpec struct {
	Name       string          `yaml:"name"`
	Directives []DirectiveSpec `yaml:"directives"`
}

// DirectiveSpec declares one directive and its source expressions. An empty
// source list is meaningful: it renders as 'none', or removes report-uri.
type DirectiveSpec struct {
	Name    string   `yaml:"name"`
	Sources []string `yaml:"sources"`
}

func (c *Config) BaseDir() string {
	return c.baseDir
}
