package main

import (
	"jailpop/cmd/jailpop/commands"
	"jailpop/pkg/osutil"
)

func main() {
	commands.ExecuteContext(osutil.SignalContext())
}
