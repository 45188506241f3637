package main

import (
	"github.com/wopanel/wopanel/cmd/root"
)

func main() {
	root.Execute()
}
