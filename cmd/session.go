package cmd

import (
	"github.com/ferama/prelay/pkg/conf"
	"github.com/ferama/prelay/pkg/session"
)

// startSession blocks until the session ends. The terminal is already
// restored when a failure is reported
func startSession(cfg *conf.Config) {
	s := session.NewSession(cfg)
	if err := s.Start(); err != nil {
		cmdLog.Fatalln(err)
	}
}
