package child

// ChildConf holds the child process configuration
type ChildConf struct {
	// the program to run. Resolved through PATH
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
	// working directory. Empty means the current one
	Dir string `yaml:"dir"`
	// extra environment, added to the inherited one
	Env map[string]string `yaml:"env"`
}
