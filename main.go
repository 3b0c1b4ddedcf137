package main

import "github.com/halvard/kb/cmd"

func main() {
	cmd.Execute()
}
