package main

import "github.com/Tiliavir/work-journal/cmd"

func main() {
	cmd.Execute()
}
