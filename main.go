package main

import "github.com/DaniruKun/grid-motion/cmd"

func main() {
	cmd.Execute()
}
