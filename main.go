package main

import "github.com/frahmantamala/plan-checkout/cmd"

func main() {
	cmd.Execute()
}
