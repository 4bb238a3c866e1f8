package relay

import "github.com/ferama/prelay/pkg/rio"

// RelayConf holds the relay configuration
type RelayConf struct {
	// Submit is appended to the pending input when the user hits enter.
	// Children reading lines usually want "\n"
	Submit string `yaml:"submit"`
	// CancelByte closes the user input when typed. Defaults to Ctrl-X
	CancelByte byte `yaml:"cancel_byte"`
	// if true the terminal is put in raw mode while the relay runs
	Raw bool `yaml:"raw"`
}

// NewDefaultRelayConf returns the configuration used when none is given
func NewDefaultRelayConf() *RelayConf {
	return &RelayConf{
		Submit:     "\n",
		CancelByte: rio.DefaultCancelByte,
		Raw:        true,
	}
}
