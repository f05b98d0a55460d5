/*
Copyright © 2026 JACOB ARTHURS
*/
package main

import "github.com/jacobarthurs/dprof/cmd"

func main() {
	cmd.Execute()
}
