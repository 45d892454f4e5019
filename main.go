package main

import "github.com/krsnv/xfce4-ddc-brightness-slider/cmd"

func main() {
	cmd.Execute()
}
