package main

import "phantomsync/cmd"

func main() {
	cmd.Execute()
}
