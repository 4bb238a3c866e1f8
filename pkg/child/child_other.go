//go:build !unix

package child

import (
	"errors"
	"os/exec"

	"github.com/ferama/prelay/pkg/rio"
)

func startWithPipes(cmd *exec.Cmd) (*rio.FD, *rio.FD, error) {
	return nil, nil, errors.New("child: pipes are not supported on this platform")
}
