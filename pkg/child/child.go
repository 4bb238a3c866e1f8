package child

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"sync"

	"github.com/ferama/prelay/pkg/logger"
	"github.com/ferama/prelay/pkg/rio"
)

var log = logger.NewLogger("[CHLD] ", logger.Magenta)

// ErrNoCommand is returned by Start when there is nothing to run
var ErrNoCommand = errors.New("no command to run")

// Child is a running program whose stdin and stdout are pipes. The
// parent side of the pipes is non blocking and owned by the caller
type Child struct {
	cmd *exec.Cmd

	// Stdin is the write end of the child's standard input
	Stdin *rio.FD
	// Stdout is the read end of the child's standard output
	Stdout *rio.FD

	closeOnce sync.Once
}

// Start spawns the program described by conf. Its stderr is inherited
func Start(conf *ChildConf) (*Child, error) {
	if conf == nil || conf.Command == "" {
		return nil, ErrNoCommand
	}

	cmd := exec.Command(conf.Command, conf.Args...)
	cmd.Dir = conf.Dir
	cmd.Stderr = os.Stderr
	if len(conf.Env) > 0 {
		cmd.Env = append(os.Environ(), envList(conf.Env)...)
	}

	stdin, stdout, err := startWithPipes(cmd)
	if err != nil {
		return nil, fmt.Errorf("start %s: %w", conf.Command, err)
	}
	log.Printf("started %s %q (pid %d)", conf.Command, conf.Args, cmd.Process.Pid)

	return &Child{
		cmd:    cmd,
		Stdin:  stdin,
		Stdout: stdout,
	}, nil
}

// Pid returns the child process id
func (c *Child) Pid() int {
	return c.cmd.Process.Pid
}

// Kill forcibly terminates the child, whatever its state
func (c *Child) Kill() error {
	return c.cmd.Process.Kill()
}

// Close kills the child, releases the pipes and reaps the process.
// It is safe to call more than once
func (c *Child) Close() error {
	var err error
	c.closeOnce.Do(func() {
		if kerr := c.Kill(); kerr != nil && !errors.Is(kerr, os.ErrProcessDone) {
			err = kerr
		}
		c.Stdin.Close()
		c.Stdout.Close()
		// the exit status is not interesting, the process was killed
		c.cmd.Wait()
		log.Printf("pid %d terminated", c.cmd.Process.Pid)
	})
	return err
}

func envList(env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	ret := make([]string, 0, len(env))
	for _, k := range keys {
		ret = append(ret, fmt.Sprintf("%s=%s", k, env[k]))
	}
	return ret
}
