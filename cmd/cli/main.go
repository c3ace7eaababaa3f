package main

import "shipment-tracker/internal/cmd"

func main() {
	cmd.Execute()
}
