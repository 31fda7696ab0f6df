package ctl

import (
	"fmt"
	"net"
	"time"
)

// SendTC opens a short-lived TCP connection to a BBU's TC accept
// endpoint and delivers a single telecommand line, per the uplink
// contract in spec section 4.7 — one command per connection.
func SendTC(tcAddr, cmd string, jsonOutput bool) error {
	conn, err := net.DialTimeout("tcp", tcAddr, 5*time.Second)
	if err != nil {
		return fmt.Errorf("dial %s: %w", tcAddr, err)
	}
	defer conn.Close()

	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if _, err := fmt.Fprintln(conn, cmd); err != nil {
		return fmt.Errorf("send TC: %w", err)
	}

	if jsonOutput {
		return printJSON(map[string]any{"sent": true, "addr": tcAddr, "cmd": cmd})
	}
	fmt.Printf("  %s  %s -> %s\n", colorize(green, "sent"), cmd, colorize(dim, tcAddr))
	return nil
}
