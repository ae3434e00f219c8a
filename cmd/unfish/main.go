package main

import (
	"github.com/MeKo-Tech/unfish/cmd/unfish/cmd"
)

func main() {
	cmd.Execute()
}
