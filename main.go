package main

import "github.com/surveystream/brfssfit/cmd"

func main() {
	cmd.Execute()
}
