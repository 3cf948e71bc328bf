package main

import "github.com/naka-gawa/gh-dashboard/cmd"

func main() {
	cmd.Execute()
}
