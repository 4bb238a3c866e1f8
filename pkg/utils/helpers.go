package utils

import (
	"bufio"
	"os"
	"os/user"
	"path/filepath"
	"strings"
)

const fallbackShell = "/bin/sh"

// ExpandUserHome resolve paths like "~/prelay.log"
func ExpandUserHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") && path != "~" {
		return path, nil
	}
	usr, err := user.Current()
	if err != nil {
		return "", err
	}
	return filepath.Join(usr.HomeDir, strings.TrimPrefix(path[1:], "/")), nil
}

// GetUserDefaultShell looks up the login shell of username in passwd
// and falls back to /bin/sh
func GetUserDefaultShell(username string) string {
	return lookupShell("/etc/passwd", username)
}

func lookupShell(passwd string, username string) string {
	file, err := os.Open(passwd)
	if err != nil {
		return fallbackShell
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		fs := strings.Split(scanner.Text(), ":")
		if len(fs) != 7 || fs[0] != username {
			continue
		}
		if fs[6] == "" {
			break
		}
		return fs[6]
	}
	return fallbackShell
}
