package main

import "github.com/super-flat/actornode/sample/cmd"

func main() {
	cmd.Execute()
}
