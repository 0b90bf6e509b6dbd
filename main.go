package main

import "HostMonitor/pkg/commands"

func main() {
	commands.Execute()
}
