package main

import "github.com/frahmantamala/shift-scheduler/cmd"

func main() {
	cmd.Execute()
}
