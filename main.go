package main

import "github.com/guimove/loadoutfit/cmd"

func main() {
	cmd.Execute()
}
