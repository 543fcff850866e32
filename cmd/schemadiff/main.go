package main

import "github.com/dbsmedya/schemadiff/cmd/schemadiff/cmd"

func main() {
	cmd.Execute()
}
