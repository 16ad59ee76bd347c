package main

import "github.com/bz888/gunther/cmd"

func main() {
	cmd.Execute()
}
