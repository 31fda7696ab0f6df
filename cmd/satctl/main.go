// Satctl is the command-line client for monitoring and controlling a
// running satsimd-sat or satsimd-bbu instance. It connects over HTTP and
// WebSocket to query status and stream live events, and can inject
// telecommands over a short-lived TCP connection to a BBU.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/groundstation/satsim/internal/ctl"
)

func main() {
	var (
		host    = pflag.StringP("host", "H", "http://127.0.0.1:8082", "Daemon status URL (SAT default :8081, BBU default :8082)")
		jsonOut = pflag.Bool("json", false, "Output raw JSON instead of formatted text")
		filter  = pflag.StringSlice("filter", nil, "Event types to show in watch (e.g. --filter status,tc_executed)")
	)

	pflag.CommandLine.SetInterspersed(false)
	pflag.Parse()

	if pflag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	cmd := pflag.Arg(0)
	subArgs := pflag.Args()[1:]

	var err error
	switch cmd {
	case "status":
		err = ctl.Status(*host, *jsonOut)

	case "health":
		err = ctl.Health(*host, *jsonOut)

	case "version":
		err = ctl.VersionInfo(*jsonOut)

	case "watch":
		err = ctl.Watch(*host, ctl.WatchOptions{Filter: *filter, JSON: *jsonOut})

	case "send":
		sendFlags := pflag.NewFlagSet("send", pflag.ContinueOnError)
		tcAddr := sendFlags.String("tc-addr", "127.0.0.1:7001", "BBU TC accept address (TCP)")
		_ = sendFlags.Parse(subArgs)
		if sendFlags.NArg() < 1 {
			fmt.Fprintln(os.Stderr, "error: send requires a command string")
			os.Exit(2)
		}
		err = ctl.SendTC(*tcAddr, sendFlags.Arg(0), *jsonOut)

	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Print(`
  satctl — satsim control CLI

  USAGE
    satctl [flags] <command> [command-flags]

  COMMANDS
    status          Show daemon link geometry, rates, and buffer depths
    health          Check daemon liveness
    version         Show CLI version information
    watch           Stream live events from a daemon (Ctrl-C to stop)
    send            Inject a telecommand into a BBU's uplink queue

  GLOBAL FLAGS
    -H, --host URL      Daemon status URL (default: http://127.0.0.1:8082)
        --json          Output raw JSON instead of formatted text
        --filter TYPE   Event types to show in watch (comma-separated)

  COMMAND FLAGS
    send:
        --tc-addr ADDR  BBU TC accept address (default: 127.0.0.1:7001)

  EXAMPLES
    satctl status
    satctl --host http://127.0.0.1:8081 status
    satctl --json status
    satctl --filter status watch
    satctl send "PING"
    satctl send --tc-addr 127.0.0.1:7001 "SET_MODE SAFE"

`)
}
