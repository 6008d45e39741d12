package main

import "url-policy-sync/cmd"

func main() {
	cmd.Execute()
}
