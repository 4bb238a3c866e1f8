//go:build unix

package child

import (
	"os"
	"os/exec"
	"syscall"

	"github.com/ferama/prelay/pkg/rio"
	"golang.org/x/sys/unix"
)

func pipe() (r int, w int, err error) {
	var p [2]int
	syscall.ForkLock.RLock()
	defer syscall.ForkLock.RUnlock()

	if err := unix.Pipe(p[:]); err != nil {
		return -1, -1, os.NewSyscallError("pipe", err)
	}
	unix.CloseOnExec(p[0])
	unix.CloseOnExec(p[1])
	return p[0], p[1], nil
}

// startWithPipes starts cmd with two fresh pipes as stdin and stdout and
// returns the parent ends, switched to non blocking mode
func startWithPipes(cmd *exec.Cmd) (*rio.FD, *rio.FD, error) {
	inR, inW, err := pipe()
	if err != nil {
		return nil, nil, err
	}
	outR, outW, err := pipe()
	if err != nil {
		unix.Close(inR)
		unix.Close(inW)
		return nil, nil, err
	}

	childIn := os.NewFile(uintptr(inR), "child-stdin")
	childOut := os.NewFile(uintptr(outW), "child-stdout")
	cmd.Stdin = childIn
	cmd.Stdout = childOut

	err = cmd.Start()
	// the child owns its copies now
	childIn.Close()
	childOut.Close()

	stdin := rio.NewFD(inW, "chin")
	stdout := rio.NewFD(outR, "chout")
	if err != nil {
		stdin.Close()
		stdout.Close()
		return nil, nil, err
	}

	for _, f := range []*rio.FD{stdin, stdout} {
		if err := f.SetNonblock(true); err != nil {
			cmd.Process.Kill()
			cmd.Wait()
			stdin.Close()
			stdout.Close()
			return nil, nil, err
		}
	}
	return stdin, stdout, nil
}
