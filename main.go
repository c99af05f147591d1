package main

import "github.com/xvierd/git-prompt/cmd"

func main() {
	cmd.Execute()
}
