package main

import "github.com/centrushr/hr-management/cmd"

func main() {
	cmd.Execute()
}
